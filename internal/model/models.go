// Package model defines shared data structures for the JobLens service.
package model

import (
	"strings"
	"time"
)

// RawJobHit is one element of the upstream "hits" array. It is kept as a
// generic JSON object so that a single malformed hit cannot fail decoding of
// the whole response.
type RawJobHit map[string]any

// JobType is the categorical job type derived from a posting description.
// The zero value means no rule matched.
type JobType string

const (
	JobTypeUnset      JobType = ""
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeInternship JobType = "internship"
)

// LanguageRequirement is the categorical language requirement derived from a
// posting description. The zero value means no rule matched.
type LanguageRequirement string

const (
	LanguageUnset   LanguageRequirement = ""
	LanguageEnglish LanguageRequirement = "english"
	LanguageSwedish LanguageRequirement = "swedish"
)

// ParseJobType converts a canonical label to a JobType. Unknown labels report
// false.
func ParseJobType(s string) (JobType, bool) {
	switch jt := JobType(s); jt {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship:
		return jt, true
	}
	return JobTypeUnset, false
}

// ParseLanguage converts a canonical label to a LanguageRequirement. Unknown
// labels report false.
func ParseLanguage(s string) (LanguageRequirement, bool) {
	switch l := LanguageRequirement(s); l {
	case LanguageEnglish, LanguageSwedish:
		return l, true
	}
	return LanguageUnset, false
}

// JobRecord is the normalised, tagged representation of one posting.
// Pointer fields are nil when the upstream hit did not carry the value.
type JobRecord struct {
	Title    *string             `json:"title"`
	Company  *string             `json:"company"`
	Location *string             `json:"location"`
	PostedOn string              `json:"postedOn"` // YYYY-MM-DD or ""
	Deadline string              `json:"deadline"` // YYYY-MM-DD HH:MM or ""
	URL      *string             `json:"url"`
	Skills   []string            `json:"skills"`
	JobType  JobType             `json:"jobType"`
	Language LanguageRequirement `json:"language"`
	Urgent   bool                `json:"urgent"`
}

// SkillsLabel renders the skill set the way the table shows it.
func (r JobRecord) SkillsLabel() string {
	return strings.Join(r.Skills, ", ")
}

// HasSkill reports whether token is one of the record's skills. Matching is
// exact, never substring.
func (r JobRecord) HasSkill(token string) bool {
	for _, s := range r.Skills {
		if s == token {
			return true
		}
	}
	return false
}

// JobCollection is the result of one successful fetch. It replaces the
// previous collection of a session wholesale and is never edited in place.
type JobCollection struct {
	Keyword   string      `json:"keyword"`
	Limit     int         `json:"limit"`
	FetchedAt time.Time   `json:"fetchedAt"`
	Records   []JobRecord `json:"records"`
}

// FilterCriteria is the transient selection supplied by a client.
type FilterCriteria struct {
	Skills     []string              // must contain all
	JobTypes   []JobType             // any of
	Languages  []LanguageRequirement // any of
	UrgentOnly bool
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Skills) == 0 && len(c.JobTypes) == 0 && len(c.Languages) == 0 && !c.UrgentOnly
}
