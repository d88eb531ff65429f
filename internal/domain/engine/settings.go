package engine

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// WeightMode selects how per-period baselines weigh their groups.
type WeightMode string

// Supported weight modes.
const (
	WeightNone       WeightMode = "none"
	WeightSampleSize WeightMode = "sample_size"
)

// ParseWeightMode maps any unknown input to WeightNone.
func ParseWeightMode(s string) WeightMode {
	switch WeightMode(strings.ToLower(strings.TrimSpace(s))) {
	case WeightSampleSize:
		return WeightSampleSize
	default:
		return WeightNone
	}
}

// DefaultStdFloor separates "no spread" from a small but real spread.
const DefaultStdFloor = 1e-9

// Settings is the tunable surface shared by the analyses.
type Settings struct {
	MinSampleSize     int        `validate:"gte=0"`
	WeightMode        WeightMode `validate:"oneof=none sample_size"`
	TopN              int        `validate:"gt=0"`
	TopK              int        `validate:"gt=0"`
	MinPeriodsPresent int        `validate:"gt=0"`
	StdFloor          float64    `validate:"gt=0"`
	Focus             []string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		MinSampleSize:     0,
		WeightMode:        WeightNone,
		TopN:              5,
		TopK:              10,
		MinPeriodsPresent: 6,
		StdFloor:          DefaultStdFloor,
	}
}

// validate caches struct metadata; it holds no configuration.
var validate = validator.New() //nolint:gochecknoglobals // validator is safe for concurrent use

// WithFallback returns a copy of s where every invalid field is replaced by
// the matching field of def. The focus list is trimmed and de-duplicated.
func (s Settings) WithFallback(def Settings) Settings {
	out := s
	var verrs validator.ValidationErrors
	if err := validate.Struct(s); errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.StructField() {
			case "MinSampleSize":
				out.MinSampleSize = def.MinSampleSize
			case "WeightMode":
				out.WeightMode = def.WeightMode
			case "TopN":
				out.TopN = def.TopN
			case "TopK":
				out.TopK = def.TopK
			case "MinPeriodsPresent":
				out.MinPeriodsPresent = def.MinPeriodsPresent
			case "StdFloor":
				out.StdFloor = def.StdFloor
			}
		}
	}
	out.Focus = cleanList(s.Focus)
	return out
}

func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
