package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeonarddeR/ReaDaisy/internal/batch"
	"github.com/LeonarddeR/ReaDaisy/internal/ledger"
	"github.com/LeonarddeR/ReaDaisy/internal/logging"
)

func newConvertCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		inputDir  string
		outputDir string
		workers   int
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert every DAISY book under the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(inputDir) != "" {
				cfg.Paths.InputDir = inputDir
			}
			if strings.TrimSpace(outputDir) != "" {
				cfg.Paths.OutputDir = outputDir
			}
			if cmd.Flags().Changed("workers") {
				cfg.Convert.Workers = workers
			}
			if cmd.Flags().Changed("overwrite") {
				cfg.Convert.OverwriteExisting = overwrite
			}
			if strings.TrimSpace(cfg.Paths.InputDir) == "" {
				return errors.New("no input directory; set paths.input_dir or pass --input")
			}
			if strings.TrimSpace(cfg.Paths.OutputDir) == "" {
				return errors.New("no output directory; set paths.output_dir or pass --output")
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, closeLog, err := cmdCtx.newLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			var store *ledger.Store
			if cfg.Ledger.Enabled {
				store, err = ledger.Open(cfg.Ledger.Path)
				if err != nil {
					logger.Warn("run history unavailable", logging.Error(err))
				} else {
					defer store.Close()
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := batch.Run(ctx, batch.Options{
				InputRoot:     cfg.Paths.InputDir,
				OutputRoot:    cfg.Paths.OutputDir,
				Workers:       cfg.Convert.Workers,
				Overwrite:     cfg.Convert.OverwriteExisting,
				StagingMaxAge: time.Duration(cfg.Convert.StagingMaxAgeHours) * time.Hour,
				Logger:        logger,
				Ledger:        store,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(summary))
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d books failed", summary.Failed, summary.Converted+summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory scanned recursively for DAISY books")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory the converted books are written to")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of books converted concurrently")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace already converted book directories")
	return cmd
}

func renderSummary(summary *batch.Summary) string {
	rows := make([][]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		title := res.Title
		status := "converted"
		detail := res.OutputDir
		if res.Err != nil {
			status = "failed"
			detail = res.Err.Error()
			if title == "" {
				title = res.SourceDir
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", res.Index),
			truncate(title, 40),
			fmt.Sprintf("%d", res.Segments),
			formatClock(res.Length),
			status,
			truncate(detail, 60),
		})
	}
	tbl := renderTable(
		[]string{"#", "Book", "Files", "Length", "Status", "Detail"},
		rows, 1, 3, 4,
	)
	return fmt.Sprintf("%s\nConverted %d book(s), %d failed, %s of audio.",
		tbl, summary.Converted, summary.Failed, formatClock(summary.TotalLength))
}
