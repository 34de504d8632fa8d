package scraper

import (
	"time"

	"joblens/internal/model"
)

// UrgencyWindow is how close an application deadline must be to count as
// urgent.
const UrgencyWindow = 72 * time.Hour

// BuildRecord maps one upstream hit to a JobRecord. Missing or mistyped
// fields become absent values; nothing here can fail.
func BuildRecord(hit model.RawJobHit, now time.Time) model.JobRecord {
	description := ""
	if text := stringAt(hit, "description", "text"); text != nil {
		description = *text
	}
	tags := ExtractTags(description)

	published := stringAt(hit, "publication_date")
	deadline := stringAt(hit, "application_deadline")

	return model.JobRecord{
		Title:    stringAt(hit, "headline"),
		Company:  stringAt(hit, "employer", "name"),
		Location: stringAt(hit, "workplace_address", "municipality"),
		PostedOn: ToDateOnly(published),
		Deadline: ToDateTime(deadline),
		URL:      stringAt(hit, "webpage_url"),
		Skills:   tags.Skills,
		JobType:  tags.JobType,
		Language: tags.Language,
		Urgent:   isUrgent(deadline, now),
	}
}

// isUrgent reports whether the deadline falls within UrgencyWindow from now.
// Deadlines already passed are not urgent.
func isUrgent(deadline *string, now time.Time) bool {
	t, ok := ParseTimestamp(deadline)
	if !ok {
		return false
	}
	remaining := t.Sub(now)
	return remaining >= 0 && remaining <= UrgencyWindow
}

// stringAt walks nested JSON objects and returns the string at path, or nil
// when any step is missing, null or of another type.
func stringAt(hit map[string]any, path ...string) *string {
	if hit == nil || len(path) == 0 {
		return nil
	}
	var current any = hit
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = obj[key]
		if !ok {
			return nil
		}
	}
	s, ok := current.(string)
	if !ok {
		return nil
	}
	return &s
}
