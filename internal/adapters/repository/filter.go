package repository

import (
	"strings"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

// Filter narrows a dataset before analysis. Zero values mean "no restriction".
type Filter struct {
	YearStart               int
	YearEnd                 int
	Universities            []string
	Categories              []string
	Courses                 []string
	MinRecordsPerUniversity int
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return f.YearStart == 0 && f.YearEnd == 0 &&
		len(f.Universities) == 0 && len(f.Categories) == 0 && len(f.Courses) == 0 &&
		f.MinRecordsPerUniversity <= 0
}

// Apply returns the records of ds that pass every restriction. The
// per-university minimum is evaluated after the other restrictions.
func (f Filter) Apply(ds model.Dataset) model.Dataset {
	if f.IsZero() {
		return ds
	}
	unis, cats, courses := set(f.Universities), set(f.Categories), set(f.Courses)

	out := ds.Where(func(r model.Record) bool {
		if f.YearStart != 0 && r.Year < f.YearStart {
			return false
		}
		if f.YearEnd != 0 && r.Year > f.YearEnd {
			return false
		}
		return member(r, model.ColUniversity, unis) &&
			member(r, model.ColCategory, cats) &&
			member(r, model.ColCourse, courses)
	})
	if f.MinRecordsPerUniversity <= 1 {
		return out
	}

	counts := make(map[string]int)
	for _, r := range out.Records {
		if u, ok := r.Key(model.ColUniversity); ok {
			counts[u]++
		}
	}
	return out.Where(func(r model.Record) bool {
		u, ok := r.Key(model.ColUniversity)
		return ok && counts[u] >= f.MinRecordsPerUniversity
	})
}

func set(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

func member(r model.Record, col string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	v, ok := r.Key(col)
	if !ok {
		return false
	}
	_, ok = allowed[v]
	return ok
}
