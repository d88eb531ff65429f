package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/testsurvey"
	"github.com/Divaprk/DAaaS-Platform-G36/pkg/logger"
)

// generateCmd writes a synthetic survey CSV. It needs no data source, so it
// skips config loading.
func (c *cli) generateCmd() *cobra.Command {
	cfg := testsurvey.DefaultConfig()
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic graduate employment survey as CSV",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return logger.Init(logger.WithWriter(cmd.ErrOrStderr()))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds := testsurvey.Generate(cfg)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := testsurvey.WriteCSV(w, ds); err != nil {
				return err
			}
			logger.Get().Info(cmd.Context(), "synthetic survey written",
				logger.Int("records", ds.Len()),
				logger.Int("universities", cfg.Universities),
				logger.String("out", out))
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.IntVar(&cfg.FirstYear, "year-start", cfg.FirstYear, "first survey year")
	fs.IntVar(&cfg.LastYear, "year-end", cfg.LastYear, "last survey year")
	fs.IntVar(&cfg.Universities, "universities", cfg.Universities, "number of universities")
	fs.Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "probability a metric cell is blank")
	return cmd
}
