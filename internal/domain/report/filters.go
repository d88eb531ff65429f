package report

import "github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"

// FilterOptions lists the values a caller can filter on.
type FilterOptions struct {
	Years        []int    `json:"years"`
	Universities []string `json:"universities"`
	Categories   []string `json:"categories"`
	Courses      []string `json:"courses"`
}

// Filters returns the sorted distinct years, universities, categories and
// courses of ds.
func Filters(ds model.Dataset) FilterOptions {
	return FilterOptions{
		Years:        nonNilInts(ds.Years()),
		Universities: nonNil(ds.Distinct(model.ColUniversity)),
		Categories:   nonNil(ds.Distinct(model.ColCategory)),
		Courses:      nonNil(ds.Distinct(model.ColCourse)),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
