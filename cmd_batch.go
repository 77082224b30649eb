package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/qrstudio/internal/batch"
	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/store"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		output    string
		format    string
		encoding  string
		delimiter string
		noHistory bool
	)
	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Generate one QR code per CSV row",
		Long: `Generate one QR code per row of a CSV file with the columns type, data and
pdf_title. Rows that fail are reported and skipped; the run continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("output") {
				cfg.Batch.OutputDir = output
			}
			if cmd.Flags().Changed("format") {
				cfg.Batch.Format = format
			}
			if cmd.Flags().Changed("encoding") {
				cfg.Batch.Encoding = encoding
			}
			if cmd.Flags().Changed("delimiter") {
				cfg.Batch.Delimiter = delimiter
			}
			if noHistory {
				cfg.History.Enabled = false
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBatch(ctx, cmd, a, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "Output directory")
	f.StringVar(&format, "format", "", "Artifact format: png, jpg, svg, pdf")
	f.StringVar(&encoding, "encoding", "", "Input text encoding, e.g. utf-8, windows-1252")
	f.StringVar(&delimiter, "delimiter", "", "Field delimiter (\"tab\" for TSV)")
	f.BoolVar(&noHistory, "no-history", false, "Do not record the run")
	return cmd
}

func runBatch(ctx context.Context, cmd *cobra.Command, a *app, input string) error {
	cfg := a.cfg
	format, err := export.ParseFormat(cfg.Batch.Format)
	if err != nil {
		return err
	}
	delim, err := cfg.Delimiter()
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	enc, err := encoder.New(cfg.Encoder.Backend)
	if err != nil {
		return err
	}
	style, err := cfg.RenderStyle()
	if err != nil {
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	src, err := batch.NewCSVSource(f, batch.CSVOptions{Encoding: cfg.Batch.Encoding, Delimiter: delim})
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	runner := &batch.Runner{
		Encoder: enc,
		Writer:  export.New(a.log, style, export.PDFOptions{Author: cfg.PDF.Author, Creator: cfg.PDF.Creator}),
		Level:   level,
		Format:  format,
		Log:     a.log,
	}
	run := runner.Run(ctx, src, cfg.Batch.OutputDir).Label(filepath.Base(input))
	var results []batch.Result
	for res := range run.Results() {
		results = append(results, res)
		if res.Success {
			a.log.Debug().Int("row", res.Index).Str("path", res.Path).Msg("written")
		}
	}
	summary := run.Summary()

	if cfg.History.Enabled {
		if err := saveHistory(ctx, cfg.History.Path, summary, results); err != nil {
			a.log.Warn().Err(err).Msg("run not recorded")
		}
	}
	if err := batch.Report(cmd.OutOrStdout(), summary, results); err != nil {
		return err
	}
	if summary.Canceled {
		return context.Canceled
	}
	return nil
}

func saveHistory(ctx context.Context, path string, sum batch.Summary, results []batch.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	// The run context may already be canceled; the record should still land.
	return st.SaveRun(context.WithoutCancel(ctx), sum, results)
}
