package i18n_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"joblens/internal/i18n"
)

func TestText_Formatting(t *testing.T) {
	assert.Equal(t, "Found 3 matching positions", i18n.Text(i18n.English, i18n.KeyResultCount, 3))
	assert.Equal(t, "共找到 3 个符合条件的岗位", i18n.Text(i18n.Chinese, i18n.KeyResultCount, 3))
	assert.Equal(t, "API request failed, please try again later.", i18n.Text(i18n.English, i18n.KeyAPIError))
	assert.Equal(t, "实习", i18n.Text(i18n.Chinese, i18n.KeyInternship))
}

func TestText_Fallbacks(t *testing.T) {
	assert.Equal(t, "Search", i18n.Text(i18n.Locale("fr"), i18n.KeyStartButton))
	assert.Equal(t, "no_such_key", i18n.Text(i18n.English, "no_such_key"))
}

func TestKeys_BothLocalesComplete(t *testing.T) {
	keys := i18n.Keys()
	assert.Len(t, keys, 30)
	for _, k := range keys {
		en := i18n.Text(i18n.English, k)
		zh := i18n.Text(i18n.Chinese, k)
		assert.NotEqual(t, k, en, "missing English label for %s", k)
		assert.NotEqual(t, k, zh, "missing Chinese label for %s", k)
		assert.NotEqual(t, en, zh, "Chinese label for %s falls back to English", k)
	}
}

func TestParseLocale(t *testing.T) {
	cases := []struct {
		in   string
		want i18n.Locale
		ok   bool
	}{
		{"en", i18n.English, true},
		{"English", i18n.English, true},
		{"en-GB", i18n.English, true},
		{"zh", i18n.Chinese, true},
		{"中文", i18n.Chinese, true},
		{"zh-CN", i18n.Chinese, true},
		{"", "", false},
		{"klingon!!", "", false},
		{"sv", "", false},
	}
	for _, c := range cases {
		got, ok := i18n.ParseLocale(c.in)
		assert.Equal(t, c.ok, ok, "ParseLocale(%q) ok", c.in)
		assert.Equal(t, c.want, got, "ParseLocale(%q)", c.in)
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/jobs?lang=zh", nil)
	assert.Equal(t, i18n.Chinese, i18n.FromRequest(r, i18n.English))

	r = httptest.NewRequest("GET", "/jobs", nil)
	r.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	assert.Equal(t, i18n.Chinese, i18n.FromRequest(r, i18n.English))

	r = httptest.NewRequest("GET", "/jobs", nil)
	assert.Equal(t, i18n.Chinese, i18n.FromRequest(r, i18n.Chinese))
}
