package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	repository "github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
	app "github.com/Divaprk/DAaaS-Platform-G36/internal/app"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
	"github.com/Divaprk/DAaaS-Platform-G36/pkg/logger"
)

// filterFlags are the row filters shared by every analysis.
type filterFlags struct {
	yearStart    int
	yearEnd      int
	universities []string
	categories   []string
	courses      []string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.yearStart, "year-start", 0, "first survey year to include")
	fs.IntVar(&f.yearEnd, "year-end", 0, "last survey year to include")
	fs.StringSliceVar(&f.universities, "universities", nil, "universities to include")
	fs.StringSliceVar(&f.categories, "categories", nil, "course categories to include")
	fs.StringSliceVar(&f.courses, "courses", nil, "courses to include")
}

func (f *filterFlags) filter() repository.Filter {
	return repository.Filter{
		YearStart:    f.yearStart,
		YearEnd:      f.yearEnd,
		Universities: f.universities,
		Categories:   f.categories,
		Courses:      f.courses,
	}
}

func (c *cli) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis against the configured source and print JSON",
	}
	cmd.AddCommand(c.tradeoffCmd(), c.performanceCmd(), c.universitiesCmd())
	return cmd
}

func (c *cli) tradeoffCmd() *cobra.Command {
	var (
		ff            filterFlags
		minSampleSize int
		topN          int
		trendline     bool
	)
	cmd := &cobra.Command{
		Use:   "tradeoff",
		Short: "Employment vs salary tradeoff by course category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runAnalysis(cmd, func(ctx context.Context, svc *app.Service) (any, error) {
				p := svc.Defaults().Tradeoff
				flags := cmd.Flags()
				if flags.Changed("min-sample-size") {
					p.Settings.MinSampleSize = minSampleSize
				}
				if flags.Changed("top-n") {
					p.Settings.TopN = topN
				}
				if flags.Changed("trendline") {
					p.Trendline = trendline
				}
				return svc.Tradeoff(ctx, ff.filter(), p)
			})
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().IntVar(&minSampleSize, "min-sample-size", 0, "minimum rows per category")
	cmd.Flags().IntVar(&topN, "top-n", 0, "entries per ranking")
	cmd.Flags().BoolVar(&trendline, "trendline", true, "fit salary against employment")
	return cmd
}

func (c *cli) performanceCmd() *cobra.Command {
	var (
		ff            filterFlags
		salaryColumn  string
		groupBy       []string
		weightMode    string
		focus         []string
		minSampleSize int
		topK          int
		minYears      int
	)
	cmd := &cobra.Command{
		Use:   "performance",
		Short: "Year-normalised relative salary index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runAnalysis(cmd, func(ctx context.Context, svc *app.Service) (any, error) {
				p := svc.Defaults().Relative
				flags := cmd.Flags()
				if flags.Changed("salary-column") {
					p.SalaryColumn = salaryColumn
				}
				if flags.Changed("group-by") {
					p.GroupBy = groupBy
				}
				if flags.Changed("weight-mode") {
					p.Settings.WeightMode = engine.ParseWeightMode(weightMode)
				}
				if flags.Changed("focus") {
					p.Settings.Focus = focus
				}
				if flags.Changed("min-sample-size") {
					p.Settings.MinSampleSize = minSampleSize
				}
				if flags.Changed("top-k") {
					p.Settings.TopK = topK
				}
				if flags.Changed("min-years") {
					p.Settings.MinPeriodsPresent = minYears
				}
				return svc.RelativePerformance(ctx, ff.filter(), p)
			})
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().StringVar(&salaryColumn, "salary-column", "", "salary metric to normalise")
	cmd.Flags().StringSliceVar(&groupBy, "group-by", nil, "grouping columns")
	cmd.Flags().StringVar(&weightMode, "weight-mode", "", "year baseline weighting: none or sample_size")
	cmd.Flags().StringSliceVar(&focus, "focus", nil, "groups to follow in the bump chart")
	cmd.Flags().IntVar(&minSampleSize, "min-sample-size", 0, "minimum rows per group and year")
	cmd.Flags().IntVar(&topK, "top-k", 0, "groups to follow when no focus is given")
	cmd.Flags().IntVar(&minYears, "min-years", 0, "years a group needs to be followed")
	return cmd
}

func (c *cli) universitiesCmd() *cobra.Command {
	var (
		ff            filterFlags
		topCategories int
		minRecords    int
	)
	cmd := &cobra.Command{
		Use:   "universities",
		Short: "Cross-university employment, salary and growth comparison",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runAnalysis(cmd, func(ctx context.Context, svc *app.Service) (any, error) {
				d := svc.Defaults()
				p := d.University
				if cmd.Flags().Changed("top-categories") {
					p.TopCategories = topCategories
				}
				f := ff.filter()
				// Categories pick the salary breakdown rather than filtering rows.
				p.Categories, f.Categories = f.Categories, nil
				f.MinRecordsPerUniversity = minRecords
				return svc.UniversityComparison(ctx, app.MergeFilter(f, d.UniversityFilter), p)
			})
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().IntVar(&topCategories, "top-categories", 0, "categories in the salary breakdown")
	cmd.Flags().IntVar(&minRecords, "min-records", 0, "minimum records per university")
	return cmd
}

// runAnalysis loads the configured source once, runs fn and prints its
// result as indented JSON.
func (c *cli) runAnalysis(cmd *cobra.Command, fn func(context.Context, *app.Service) (any, error)) error {
	ctx := cmd.Context()
	src, closeSource, err := newSource(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	svc := app.New(
		app.WithLogger(logger.Named("service")),
		app.WithSource(src),
		app.WithDefaults(c.cfg.Defaults()),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	res, err := fn(ctx, svc)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
