package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/Divaprk/DAaaS-Platform-G36/internal/app"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/config"
)

const fixtureCSV = `year,university,school,degree,course,course_category,employment_rate_overall,gross_monthly_mean,gross_monthly_median
2019,NUS,Law,LLB,Law,Law,95,5200,5000
2019,NUS,Computing,BComp,Computing,IT,92,5000,4800
2019,NTU,Computing,BComp,Computing,IT,90,4700,4600
2020,NUS,Law,LLB,Law,Law,93,5300,5100
2020,NUS,Computing,BComp,Computing,IT,94,5200,5000
2020,NTU,Computing,BComp,Computing,IT,91,4900,4800
2020,NTU,Arts,BA,Arts,Arts,85,3600,3500
`

// useFixture points the CSV source at a temporary survey file.
func useFixture(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ges.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GES_DATA_PATH", path)
	t.Setenv("GES_DATA_SOURCE", "csv")
	t.Setenv("GES_TRADEOFF_MIN_SAMPLE_SIZE", "1")
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeCommands(t *testing.T) {
	useFixture(t)

	convey.Convey("Given the analyze commands", t, func() {
		convey.Convey("Tradeoff prints the category summary", func() {
			out, err := execute("analyze", "tradeoff", "--top-n", "2")
			convey.So(err, convey.ShouldBeNil)

			var res struct {
				Summary []struct {
					Category string `json:"course_category"`
				} `json:"summary"`
				Meta struct {
					TopN int `json:"top_n"`
				} `json:"meta"`
			}
			convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
			convey.So(len(res.Summary), convey.ShouldEqual, 3)
			convey.So(res.Summary[0].Category, convey.ShouldEqual, "Law")
			convey.So(res.Meta.TopN, convey.ShouldEqual, 2)
		})

		convey.Convey("Performance honours the year filter", func() {
			out, err := execute("analyze", "performance", "--year-start", "2020", "--min-years", "1")
			convey.So(err, convey.ShouldBeNil)

			var res struct {
				YearStats []struct {
					Year int `json:"year"`
				} `json:"year_stats"`
			}
			convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
			convey.So(len(res.YearStats), convey.ShouldEqual, 1)
			convey.So(res.YearStats[0].Year, convey.ShouldEqual, 2020)
		})

		convey.Convey("Universities relaxes the record minimum on request", func() {
			out, err := execute("analyze", "universities", "--min-records", "1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"universities": [`)
			convey.So(out, convey.ShouldContainSubstring, `"NTU"`)
		})

		convey.Convey("A missing column fails the command", func() {
			_, err := execute("analyze", "performance", "--salary-column", "bonus")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestAnalyzeMissingSource(t *testing.T) {
	convey.Convey("Given a data path that does not exist", t, func() {
		t.Setenv("GES_DATA_PATH", filepath.Join(t.TempDir(), "absent.csv"))

		_, err := execute("analyze", "tradeoff")

		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestServeMux(t *testing.T) {
	useFixture(t)

	convey.Convey("Given a started service behind the mux", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		src, closeSource, err := newSource(context.Background(), cfg)
		convey.So(err, convey.ShouldBeNil)
		defer closeSource()

		svc := app.New(app.WithSource(src), app.WithDefaults(cfg.Defaults()))
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(context.Background(), svc)

		for _, path := range []string{"/healthz", "/stats", "/v1/filters", "/v1/tradeoff", "/openapi.yaml"} {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		}
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metric updaters", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		convey.So(func() { startServiceMetricsUpdater(ctx, app.New()) }, convey.ShouldNotPanic)
	})
}

func TestGenerateCommand(t *testing.T) {
	convey.Convey("Given a generated survey file", t, func() {
		path := filepath.Join(t.TempDir(), "synthetic.csv")
		_, err := execute("generate", "--out", path, "--universities", "3", "--year-start", "2016", "--year-end", "2020")
		convey.So(err, convey.ShouldBeNil)

		data, err := os.ReadFile(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(data), convey.ShouldStartWith, "year,university,school,degree,course,course_category,")

		convey.Convey("The analyses can run against it", func() {
			t.Setenv("GES_DATA_SOURCE", "csv")
			t.Setenv("GES_DATA_PATH", path)

			out, err := execute("analyze", "performance")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"year_stats"`)
		})
	})
}
