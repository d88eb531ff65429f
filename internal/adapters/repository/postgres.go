package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

// DefaultTable is the survey table read when none is configured.
const DefaultTable = "graduate_employment_survey"

// surveyRow mirrors one row of the survey table.
type surveyRow struct {
	Year                  sql.NullInt64   `db:"year"`
	University            sql.NullString  `db:"university"`
	School                sql.NullString  `db:"school"`
	Degree                sql.NullString  `db:"degree"`
	Course                sql.NullString  `db:"course"`
	CourseCategory        sql.NullString  `db:"course_category"`
	EmploymentRateOverall sql.NullFloat64 `db:"employment_rate_overall"`
	EmploymentRateFTPerm  sql.NullFloat64 `db:"employment_rate_ft_perm"`
	BasicMonthlyMean      sql.NullFloat64 `db:"basic_monthly_mean"`
	BasicMonthlyMedian    sql.NullFloat64 `db:"basic_monthly_median"`
	GrossMonthlyMean      sql.NullFloat64 `db:"gross_monthly_mean"`
	GrossMonthlyMedian    sql.NullFloat64 `db:"gross_monthly_median"`
	GrossMonthly25        sql.NullFloat64 `db:"gross_mthly_25_percentile"`
	GrossMonthly75        sql.NullFloat64 `db:"gross_mthly_75_percentile"`
}

// PostgresSource reads the survey from a PostgreSQL table.
type PostgresSource struct {
	db    *sqlx.DB
	table string
}

// OpenPostgres connects to url with the lib/pq driver.
func OpenPostgres(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrLoad, err)
	}
	return db, nil
}

// NewPostgresSource returns a source reading table through db.
func NewPostgresSource(db *sqlx.DB, table string) *PostgresSource {
	if strings.TrimSpace(table) == "" {
		table = DefaultTable
	}
	return &PostgresSource{db: db, table: table}
}

// Name implements Source.
func (s *PostgresSource) Name() string { return "postgres" }

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) (model.Dataset, error) {
	var rows []surveyRow
	if err := s.db.SelectContext(ctx, &rows, selectQuery(s.table)); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: select from %s: %w", ErrLoad, s.table, err)
	}
	records := make([]model.Record, 0, len(rows))
	for _, r := range rows {
		if rec, ok := r.record(); ok {
			records = append(records, rec)
		}
	}
	return model.NewDataset(surveyColumns(), records), nil
}

func surveyColumns() []string {
	cols := []string{model.ColYear}
	cols = append(cols, model.KeyColumns...)
	return append(cols, model.MetricColumns...)
}

// selectQuery quotes each part of a possibly schema-qualified table name.
func selectQuery(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(strings.TrimSpace(p))
	}
	return "SELECT " + strings.Join(surveyColumns(), ", ") + " FROM " + strings.Join(parts, ".")
}

func (r surveyRow) record() (model.Record, bool) {
	if !r.Year.Valid {
		return model.Record{}, false
	}
	rec := model.Record{Year: int(r.Year.Int64), Keys: make(map[string]string), Metrics: make(map[string]float64)}
	for col, v := range map[string]sql.NullString{
		model.ColUniversity: r.University,
		model.ColSchool:     r.School,
		model.ColDegree:     r.Degree,
		model.ColCourse:     r.Course,
		model.ColCategory:   r.CourseCategory,
	} {
		if v.Valid {
			rec.Keys[col] = v.String
		}
	}
	for col, v := range map[string]sql.NullFloat64{
		model.ColEmploymentRate:   r.EmploymentRateOverall,
		model.ColEmploymentFTPerm: r.EmploymentRateFTPerm,
		model.ColBasicMonthlyMean: r.BasicMonthlyMean,
		model.ColBasicMonthlyMed:  r.BasicMonthlyMedian,
		model.ColGrossMonthlyMean: r.GrossMonthlyMean,
		model.ColGrossMonthlyMed:  r.GrossMonthlyMedian,
		model.ColGrossMonthlyP25:  r.GrossMonthly25,
		model.ColGrossMonthlyP75:  r.GrossMonthly75,
	} {
		if v.Valid {
			rec.Metrics[col] = v.Float64
		}
	}
	return rec, true
}
