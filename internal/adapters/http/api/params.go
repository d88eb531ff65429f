package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	repository "github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
)

// intParam returns the named integer, or def when absent or unparsable.
func intParam(q url.Values, name string, def int) int {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// floatParam returns the named number, or def when absent or unparsable.
func floatParam(q url.Values, name string, def float64) float64 {
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// boolParam accepts 1, true, t, yes and y as true; any other present value
// is false.
func boolParam(q url.Values, name string, def bool) bool {
	if !q.Has(name) {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(q.Get(name))) {
	case "1", "true", "t", "yes", "y":
		return true
	}
	return false
}

// listParam splits comma separated values; repeated parameters are joined.
func listParam(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// filterParams reads the shared row filter. Category filtering is optional
// since some analyses use categories for selection rather than filtering.
func filterParams(q url.Values, withCategories bool) (repository.Filter, error) {
	f := repository.Filter{
		YearStart:    intParam(q, "year_start", 0),
		YearEnd:      intParam(q, "year_end", 0),
		Universities: listParam(q, "universities"),
		Courses:      listParam(q, "courses"),
	}
	if withCategories {
		f.Categories = listParam(q, "categories")
	}
	if f.YearStart != 0 && f.YearEnd != 0 && f.YearStart > f.YearEnd {
		return repository.Filter{}, fmt.Errorf("%w: year_start %d is after year_end %d", ErrBadRequest, f.YearStart, f.YearEnd)
	}
	return f, nil
}
