package engine

import (
	"errors"
	"strings"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingFields = errors.New("missing required fields")
)

// MissingFieldsError names every column a request needs that the dataset
// schema does not have.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// RequireColumns fails with a *MissingFieldsError listing all absent columns.
func RequireColumns(ds model.Dataset, columns ...string) error {
	if missing := ds.MissingColumns(columns...); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
