package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

func TestSelectQueryQuotesTable(t *testing.T) {
	q := selectQuery("public.ges")
	assert.Contains(t, q, `FROM "public"."ges"`)
	assert.Contains(t, q, "SELECT year, university, school, degree, course, course_category, ")

	q = selectQuery(`odd"name`)
	assert.Contains(t, q, `FROM "odd""name"`)
}

func TestNewPostgresSourceDefaultsTable(t *testing.T) {
	s := NewPostgresSource(nil, " ")
	assert.Equal(t, DefaultTable, s.table)
	assert.Equal(t, "postgres", s.Name())
}

func TestSurveyRowRecord(t *testing.T) {
	row := surveyRow{
		Year:             sql.NullInt64{Int64: 2021, Valid: true},
		University:       sql.NullString{String: "NUS", Valid: true},
		Course:           sql.NullString{String: "Law", Valid: true},
		GrossMonthlyMean: sql.NullFloat64{Float64: 5200, Valid: true},
	}
	rec, ok := row.record()
	assert.True(t, ok)
	assert.Equal(t, 2021, rec.Year)
	assert.Equal(t, "NUS", rec.Keys[model.ColUniversity])
	_, present := rec.Keys[model.ColSchool]
	assert.False(t, present)
	assert.InDelta(t, 5200, rec.Metrics[model.ColGrossMonthlyMean], 1e-9)
	_, present = rec.Metrics[model.ColEmploymentRate]
	assert.False(t, present)

	_, ok = surveyRow{}.record()
	assert.False(t, ok, "rows without a year are skipped")
}
