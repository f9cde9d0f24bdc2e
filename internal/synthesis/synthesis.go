// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis computes review-level summaries: the PRISMA flow,
// per-stage progress, and bibliometrics over included studies.
package synthesis

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/pdiddy/review-engine/pkg/types"
)

// Flow holds the PRISMA flow diagram counts.
type Flow struct {
	Identified   int `json:"identified" yaml:"identified"`
	AfterDedup   int `json:"after_dedup" yaml:"after_dedup"`
	Screened     int `json:"screened" yaml:"screened"`
	Included     int `json:"included" yaml:"included"`
	Duplicates   int `json:"duplicates" yaml:"duplicates"`
	ExcludedTA   int `json:"excluded_title_abstract" yaml:"excluded_title_abstract"`
	ExcludedFull int `json:"excluded_full_text" yaml:"excluded_full_text"`
}

// PRISMA counts records at each step of the flow. Screened is the number
// of records that passed title/abstract screening.
func PRISMA(refs []*types.Reference) Flow {
	var f Flow
	f.Identified = len(refs)
	for _, r := range refs {
		if r.Status == types.StatusDuplicate {
			f.Duplicates++
		} else {
			f.AfterDedup++
		}
		if r.DecisionTitleAbstract == types.DecisionInclude {
			f.Screened++
		}
		switch r.Status {
		case types.StatusIncluded:
			f.Included++
		case types.StatusExcluded:
			if r.DecisionTitleAbstract == types.DecisionInclude {
				f.ExcludedFull++
			} else {
				f.ExcludedTA++
			}
		}
	}
	return f
}

// StageCount is the number of records that reached a stage.
type StageCount struct {
	Stage string `json:"stage" yaml:"stage"`
	Count int    `json:"count" yaml:"count"`
}

// StageCounts reports how far records have progressed: all imported,
// past title/abstract screening, reached full text, and finally included.
func StageCounts(refs []*types.Reference) []StageCount {
	var screened, fullText, included int
	for _, r := range refs {
		if r.Status != types.StatusImported && r.Status != types.StatusDuplicate {
			screened++
		}
		switch {
		case r.Status == types.StatusScreeningFullText,
			r.Status == types.StatusIncluded,
			r.Status == types.StatusExcluded && r.DecisionTitleAbstract == types.DecisionInclude:
			fullText++
		}
		if r.Status == types.StatusIncluded {
			included++
		}
	}
	return []StageCount{
		{Stage: "imported", Count: len(refs)},
		{Stage: "title_abstract", Count: screened},
		{Stage: "full_text", Count: fullText},
		{Stage: "included", Count: included},
	}
}

// Tally is a labelled count.
type Tally struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Report holds bibliometrics over included studies.
type Report struct {
	Years    []Tally `json:"years" yaml:"years"`
	Journals []Tally `json:"journals" yaml:"journals"`
	Authors  []Tally `json:"authors" yaml:"authors"`
}

// Empty reports whether there was nothing to analyse.
func (r Report) Empty() bool {
	return len(r.Years) == 0 && len(r.Journals) == 0 && len(r.Authors) == 0
}

var (
	fourDigitYear = regexp.MustCompile(`^\d{4}$`)
	authorSep     = regexp.MustCompile(`,|;|&| and `)
)

// Bibliometrics tallies included studies by year (ascending), journal, and
// author. Journals and authors are ranked by count then name, and cut to
// top entries when top > 0. Names of two characters or fewer are ignored,
// which drops initials left over from "Surname, I." splitting.
func Bibliometrics(refs []*types.Reference, top int) Report {
	years := map[string]int{}
	journals := map[string]int{}
	authors := map[string]int{}

	for _, r := range refs {
		if r.Status != types.StatusIncluded {
			continue
		}
		if y := strings.TrimSpace(r.Year); fourDigitYear.MatchString(y) {
			years[y]++
		}
		if j := strings.TrimSpace(r.Journal); len([]rune(j)) > 2 {
			journals[j]++
		}
		for _, a := range authorSep.Split(r.Authors, -1) {
			if a = strings.TrimSpace(a); len([]rune(a)) > 2 {
				authors[a]++
			}
		}
	}

	yearTallies := tallies(years)
	slices.SortFunc(yearTallies, func(a, b Tally) int { return cmp.Compare(a.Name, b.Name) })

	return Report{
		Years:    yearTallies,
		Journals: ranked(journals, top),
		Authors:  ranked(authors, top),
	}
}

func tallies(m map[string]int) []Tally {
	out := make([]Tally, 0, len(m))
	for name, n := range m {
		out = append(out, Tally{Name: name, Count: n})
	}
	return out
}

func ranked(m map[string]int, top int) []Tally {
	out := tallies(m)
	slices.SortFunc(out, func(a, b Tally) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
