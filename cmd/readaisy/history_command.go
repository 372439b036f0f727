package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeonarddeR/ReaDaisy/internal/ledger"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return errors.New("run history is disabled; enable [ledger] in the configuration")
			}
			store, err := ledger.Open(cfg.Ledger.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				books, err := store.RunBooks(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(books) == 0 {
					return fmt.Errorf("no books recorded for run %s", runID)
				}
				rows := make([][]string, 0, len(books))
				for _, b := range books {
					detail := b.Dir
					if b.Status == ledger.StatusFailed {
						detail = b.Error
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", b.Index),
						truncate(b.Title, 40),
						fmt.Sprintf("%d", b.Segments),
						formatClock(b.Seconds),
						b.Status,
						truncate(detail, 60),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Book", "Files", "Length", "Status", "Detail"},
					rows, 1, 3, 4,
				))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No conversion runs recorded yet.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "running"
				if !run.FinishedAt.IsZero() {
					finished = run.FinishedAt.Local().Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					finished,
					truncate(run.InputDir, 40),
					fmt.Sprintf("%d", run.BooksTotal),
					fmt.Sprintf("%d", run.BooksFailed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Finished", "Input", "Books", "Failed"},
				rows, 5, 6,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the books of one run")
	return cmd
}
