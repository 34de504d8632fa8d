package scraper

import (
	"strings"

	"joblens/internal/model"
)

// Tags are the categorical attributes derived from a posting description.
type Tags struct {
	Skills   []string
	JobType  model.JobType
	Language model.LanguageRequirement
}

// Rule maps a set of lowercase terms to a value. A rule matches when any of
// its terms occurs as a substring of the lowercased description.
type Rule[T any] struct {
	Terms []string
	Value T
}

func (r Rule[T]) matches(text string) bool {
	for _, term := range r.Terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// skillVocabulary is scanned in order; the output keeps this order.
var skillVocabulary = []string{"python", "sql", "excel", "java", "machine learning", "aws", "r", "docker"}

// jobTypeRules is ordered by priority. Only the first match applies.
var jobTypeRules = []Rule[model.JobType]{
	{Terms: []string{"full-time", "heltid"}, Value: model.JobTypeFullTime},
	{Terms: []string{"part-time", "deltid"}, Value: model.JobTypePartTime},
	{Terms: []string{"internship", "praktik"}, Value: model.JobTypeInternship},
}

// languageRules is ordered by priority: a description mentioning both English
// and Swedish is tagged English.
var languageRules = []Rule[model.LanguageRequirement]{
	{Terms: []string{"english"}, Value: model.LanguageEnglish},
	{Terms: []string{"swedish", "svenska"}, Value: model.LanguageSwedish},
}

// SkillVocabulary returns a copy of the ordered skill vocabulary.
func SkillVocabulary() []string {
	return append([]string(nil), skillVocabulary...)
}

// JobTypeRules returns a copy of the job type priority table.
func JobTypeRules() []Rule[model.JobType] {
	return append([]Rule[model.JobType](nil), jobTypeRules...)
}

// LanguageRules returns a copy of the language priority table.
func LanguageRules() []Rule[model.LanguageRequirement] {
	return append([]Rule[model.LanguageRequirement](nil), languageRules...)
}

// ExtractTags derives skills, job type and language requirement from a free
// text description.
func ExtractTags(description string) Tags {
	text := strings.ToLower(description)

	skills := make([]string, 0, len(skillVocabulary))
	for _, skill := range skillVocabulary {
		if strings.Contains(text, skill) {
			skills = append(skills, strings.ToUpper(skill))
		}
	}

	return Tags{
		Skills:   skills,
		JobType:  firstMatch(text, jobTypeRules, model.JobTypeUnset),
		Language: firstMatch(text, languageRules, model.LanguageUnset),
	}
}

func firstMatch[T any](text string, rules []Rule[T], fallback T) T {
	for _, rule := range rules {
		if rule.matches(text) {
			return rule.Value
		}
	}
	return fallback
}
