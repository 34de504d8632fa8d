// Package filter selects and orders job records against client criteria.
package filter

import (
	"sort"

	"joblens/internal/model"
)

// Apply returns the records matching every criterion in c. With empty
// criteria the result is a copy of records in the same order; otherwise it is
// sorted by PostedOn, newest first. The input slice is never modified.
func Apply(records []model.JobRecord, c model.FilterCriteria) []model.JobRecord {
	if c.IsEmpty() {
		return append([]model.JobRecord(nil), records...)
	}

	jobTypes := make(map[model.JobType]struct{}, len(c.JobTypes))
	for _, jt := range c.JobTypes {
		jobTypes[jt] = struct{}{}
	}
	languages := make(map[model.LanguageRequirement]struct{}, len(c.Languages))
	for _, l := range c.Languages {
		languages[l] = struct{}{}
	}

	out := make([]model.JobRecord, 0, len(records))
	for _, r := range records {
		if !hasAllSkills(r, c.Skills) {
			continue
		}
		if len(jobTypes) > 0 {
			if _, ok := jobTypes[r.JobType]; !ok {
				continue
			}
		}
		if len(languages) > 0 {
			if _, ok := languages[r.Language]; !ok {
				continue
			}
		}
		if c.UrgentOnly && !r.Urgent {
			continue
		}
		out = append(out, r)
	}
	sortByPostedDesc(out)
	return out
}

// SortByPostedDesc returns a copy of records stably sorted by PostedOn,
// newest first. Records without a date go last.
func SortByPostedDesc(records []model.JobRecord) []model.JobRecord {
	out := append([]model.JobRecord(nil), records...)
	sortByPostedDesc(out)
	return out
}

// YYYY-MM-DD compares correctly as a string.
func sortByPostedDesc(records []model.JobRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].PostedOn, records[j].PostedOn
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a > b
	})
}

func hasAllSkills(r model.JobRecord, skills []string) bool {
	for _, s := range skills {
		if !r.HasSkill(s) {
			return false
		}
	}
	return true
}

// Options lists the selectable values present in a collection.
type Options struct {
	Skills    []string                    `json:"skills"`
	JobTypes  []model.JobType             `json:"jobTypes"`
	Languages []model.LanguageRequirement `json:"languages"`
}

// BuildOptions collects the distinct skills (sorted), job types and languages
// (first-seen order) across records. Unset values are left out.
func BuildOptions(records []model.JobRecord) Options {
	opts := Options{
		Skills:    []string{},
		JobTypes:  []model.JobType{},
		Languages: []model.LanguageRequirement{},
	}
	seenSkill := map[string]struct{}{}
	seenType := map[model.JobType]struct{}{}
	seenLang := map[model.LanguageRequirement]struct{}{}

	for _, r := range records {
		for _, s := range r.Skills {
			if _, ok := seenSkill[s]; !ok {
				seenSkill[s] = struct{}{}
				opts.Skills = append(opts.Skills, s)
			}
		}
		if r.JobType != model.JobTypeUnset {
			if _, ok := seenType[r.JobType]; !ok {
				seenType[r.JobType] = struct{}{}
				opts.JobTypes = append(opts.JobTypes, r.JobType)
			}
		}
		if r.Language != model.LanguageUnset {
			if _, ok := seenLang[r.Language]; !ok {
				seenLang[r.Language] = struct{}{}
				opts.Languages = append(opts.Languages, r.Language)
			}
		}
	}
	sort.Strings(opts.Skills)
	return opts
}
