package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/model"
)

const surveyCSV = "\ufeffYear,University,Course,Course_Category,Employment_Rate_Overall,Gross_Monthly_Median\n" +
	"2019,NUS,Law,Law,95.1,\"4,500\"\n" +
	"2019,NTU,Computing,IT,na,4000\n" +
	"twenty,SMU,Accountancy,Business,90,3500\n" +
	"2020.0,SMU,Accountancy,Business,-,3600\n" +
	"2020, ,Arts,Arts,88,abc\n"

func TestReadCSV(t *testing.T) {
	ds, skipped, err := repository.ReadCSV(context.Background(), strings.NewReader(surveyCSV))
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	require.Equal(t, 4, ds.Len())
	assert.True(t, ds.HasColumn(model.ColCategory))
	assert.True(t, ds.HasColumn(model.ColGrossMonthlyMed))
	assert.Equal(t, []int{2019, 2020}, ds.Years())

	first := ds.Records[0]
	uni, ok := first.Key(model.ColUniversity)
	assert.True(t, ok)
	assert.Equal(t, "NUS", uni)
	salary, ok := first.Metric(model.ColGrossMonthlyMed)
	assert.True(t, ok)
	assert.InDelta(t, 4500, salary, 1e-9)

	_, ok = ds.Records[1].Metric(model.ColEmploymentRate)
	assert.False(t, ok, "na is missing")

	assert.Equal(t, 2020, ds.Records[2].Year)
	_, ok = ds.Records[2].Metric(model.ColEmploymentRate)
	assert.False(t, ok, "dash is missing")

	_, ok = ds.Records[3].Key(model.ColUniversity)
	assert.False(t, ok, "blank key is missing")
	_, ok = ds.Records[3].Metric(model.ColGrossMonthlyMed)
	assert.False(t, ok, "unparsable metric is missing")
}

func TestReadCSVRejectsBadHeaders(t *testing.T) {
	_, _, err := repository.ReadCSV(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, repository.ErrInvalidSource)

	_, _, err = repository.ReadCSV(context.Background(), strings.NewReader("university,course\nNUS,Law\n"))
	assert.ErrorIs(t, err, repository.ErrInvalidSource)
}

func TestCSVSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ges.csv")
	require.NoError(t, os.WriteFile(path, []byte(surveyCSV), 0o600))

	src := repository.NewCSVSource(path)
	assert.Equal(t, "csv", src.Name())

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())

	_, err = repository.NewCSVSource(filepath.Join(t.TempDir(), "absent.csv")).Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrLoad)
}
