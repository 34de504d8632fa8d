// Package export renders job records as flat rows and CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"joblens/internal/i18n"
	"joblens/internal/model"
)

// Row is a record flattened to display strings. Enum values are kept as
// their canonical labels; localisation happens in WriteCSV.
type Row struct {
	Title    string
	Company  string
	Location string
	PostedOn string
	Deadline string
	Skills   string
	JobType  string
	Language string
	URL      string
}

var columnKeys = []string{
	i18n.KeyColTitle,
	i18n.KeyColCompany,
	i18n.KeyColLocation,
	i18n.KeyColPosted,
	i18n.KeyColDeadline,
	i18n.KeyColSkills,
	i18n.KeyColJobType,
	i18n.KeyColLanguage,
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Rows flattens records in order. Absent values become empty strings.
func Rows(records []model.JobRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			Title:    deref(r.Title),
			Company:  deref(r.Company),
			Location: deref(r.Location),
			PostedOn: r.PostedOn,
			Deadline: r.Deadline,
			Skills:   r.SkillsLabel(),
			JobType:  string(r.JobType),
			Language: string(r.Language),
			URL:      deref(r.URL),
		})
	}
	return rows
}

// Header returns the localized column labels in CSV order.
func Header(loc i18n.Locale) []string {
	out := make([]string, 0, len(columnKeys))
	for _, k := range columnKeys {
		out = append(out, i18n.Text(loc, k))
	}
	return out
}

// WriteCSV writes records as UTF-8 CSV with a localized header row. Titles
// link to the posting as [title](url) when a url is present; there is no
// separate link column.
func WriteCSV(w io.Writer, loc i18n.Locale, records []model.JobRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(loc)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range Rows(records) {
		title := row.Title
		if row.URL != "" {
			title = fmt.Sprintf("[%s](%s)", row.Title, row.URL)
		}
		if err := cw.Write([]string{
			title,
			row.Company,
			row.Location,
			row.PostedOn,
			row.Deadline,
			row.Skills,
			enumLabel(loc, row.JobType),
			enumLabel(loc, row.Language),
		}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Canonical enum values double as message keys.
func enumLabel(loc i18n.Locale, value string) string {
	if value == "" {
		return ""
	}
	return i18n.Text(loc, value)
}
