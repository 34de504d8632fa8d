// Package i18n holds the English and Chinese label sets shown to clients.
// Only presentation code looks labels up; records stay locale-independent.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Locale selects a label set.
type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh"
)

// Message keys.
const (
	KeyTitle          = "title"
	KeyDesc           = "desc"
	KeyInputKeyword   = "input_keyword"
	KeySliderLabel    = "slider_label"
	KeyStartButton    = "start_button"
	KeyStartSearching = "start_searching"
	KeyNoResult       = "no_result"
	KeyAPIError       = "API_error"
	KeyFilterTitle    = "filter_title"
	KeySkillLabel     = "skill_label"
	KeyJobTypeLabel   = "jobtype_label"
	KeyLangLabel      = "lang_label"
	KeySoonOnly       = "soon_only"
	KeyResultCount    = "result_count"
	KeyWordcloudTitle = "wordcloud_title"
	KeyCityTitle      = "city_title"
	KeyDownloadButton = "download_button"
	KeyFullTime       = "full_time"
	KeyPartTime       = "part_time"
	KeyInternship     = "internship"
	KeyEnglish        = "english"
	KeySwedish        = "swedish"

	KeyColTitle    = "col_title"
	KeyColCompany  = "col_company"
	KeyColLocation = "col_location"
	KeyColPosted   = "col_posted"
	KeyColDeadline = "col_deadline"
	KeyColSkills   = "col_skills"
	KeyColJobType  = "col_job_type"
	KeyColLanguage = "col_language"
)

var tags = map[Locale]language.Tag{
	English: language.English,
	Chinese: language.Chinese,
}

var labels = map[Locale]map[string]string{
	English: {
		KeyTitle:          "JobLens: Swedish Job Analyzer",
		KeyDesc:           "Enter a keyword to fetch and explore job opportunities in Sweden!",
		KeyInputKeyword:   "Enter keyword (e.g., data scientist)",
		KeySliderLabel:    "Max number of jobs to fetch",
		KeyStartButton:    "Search",
		KeyStartSearching: "Fetching data, please wait...",
		KeyNoResult:       "No relevant jobs found. Try another keyword.",
		KeyAPIError:       "API request failed, please try again later.",
		KeyFilterTitle:    "Filter by Tags",
		KeySkillLabel:     "Select skills:",
		KeyJobTypeLabel:   "Select job types:",
		KeyLangLabel:      "Select language requirements:",
		KeySoonOnly:       "Only show positions ending soon (within 3 days)",
		KeyResultCount:    "Found %d matching positions",
		KeyWordcloudTitle: "Word Cloud of Job Titles",
		KeyCityTitle:      "Top Cities by Job Count",
		KeyDownloadButton: "Download as CSV",
		KeyFullTime:       "Full-Time",
		KeyPartTime:       "Part-Time",
		KeyInternship:     "Internship",
		KeyEnglish:        "English",
		KeySwedish:        "Swedish",
		KeyColTitle:       "Title",
		KeyColCompany:     "Company",
		KeyColLocation:    "Location",
		KeyColPosted:      "Posted On",
		KeyColDeadline:    "Deadline",
		KeyColSkills:      "Skills",
		KeyColJobType:     "Job Type",
		KeyColLanguage:    "Language",
	},
	Chinese: {
		KeyTitle:          "JobLens 瑞典招聘信息分析仪",
		KeyDesc:           "输入关键词，获取瑞典招聘数据，并实时展示结果！",
		KeyInputKeyword:   "输入关键词（例如：data scientist）",
		KeySliderLabel:    "最多显示多少条招聘信息",
		KeyStartButton:    "开始搜索",
		KeyStartSearching: "正在抓取数据，请稍候...",
		KeyNoResult:       "未找到相关职位，请尝试其他关键词。",
		KeyAPIError:       "API 请求失败，请稍后再试。",
		KeyFilterTitle:    "按标签筛选岗位",
		KeySkillLabel:     "选择技能标签：",
		KeyJobTypeLabel:   "选择工作类型：",
		KeyLangLabel:      "选择语言要求：",
		KeySoonOnly:       "只看即将截止的职位（3天内）",
		KeyResultCount:    "共找到 %d 个符合条件的岗位",
		KeyWordcloudTitle: "职位名称关键词词云",
		KeyCityTitle:      "招聘职位最多的城市分布",
		KeyDownloadButton: "下载岗位数据（CSV）",
		KeyFullTime:       "全职",
		KeyPartTime:       "兼职",
		KeyInternship:     "实习",
		KeyEnglish:        "英语",
		KeySwedish:        "瑞典语",
		KeyColTitle:       "职位",
		KeyColCompany:     "公司",
		KeyColLocation:    "地点",
		KeyColPosted:      "发布日期",
		KeyColDeadline:    "截止时间",
		KeyColSkills:      "技能标签",
		KeyColJobType:     "工作类型",
		KeyColLanguage:    "语言要求",
	},
}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher([]language.Tag{language.English, language.Chinese})
	byIndex = []Locale{English, Chinese}
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for loc, msgs := range labels {
		for key, msg := range msgs {
			if err := b.SetString(tags[loc], key, msg); err != nil {
				panic("i18n: " + err.Error())
			}
		}
	}
	return b
}

// Keys returns every message key known to the English label set.
func Keys() []string {
	out := make([]string, 0, len(labels[English]))
	for k := range labels[English] {
		out = append(out, k)
	}
	return out
}

// Text formats the label for key in loc. Unknown locales fall back to
// English; unknown keys are returned unchanged.
func Text(loc Locale, key string, args ...any) string {
	tag, ok := tags[loc]
	if !ok {
		tag = language.English
	}
	p := message.NewPrinter(tag, message.Catalog(cat))
	return p.Sprintf(key, args...)
}

// ParseLocale maps a locale name to a supported Locale. Besides BCP-47 tags
// it accepts the display names of the language switcher.
func ParseLocale(s string) (Locale, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return "", false
	case "english":
		return English, true
	case "中文", "chinese":
		return Chinese, true
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return byIndex[idx], true
}

// FromRequest picks the locale of r from the lang query parameter, then the
// Accept-Language header, then fallback.
func FromRequest(r *http.Request, fallback Locale) Locale {
	if loc, ok := ParseLocale(r.URL.Query().Get("lang")); ok {
		return loc
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		prefs, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(prefs) > 0 {
			if _, idx, conf := matcher.Match(prefs...); conf != language.No {
				return byIndex[idx]
			}
		}
	}
	return fallback
}
