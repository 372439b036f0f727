package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeonarddeR/ReaDaisy/internal/book"
	"github.com/LeonarddeR/ReaDaisy/internal/daisy"
	"github.com/LeonarddeR/ReaDaisy/internal/nav"
	"github.com/LeonarddeR/ReaDaisy/internal/plan"
	"github.com/LeonarddeR/ReaDaisy/internal/project"
)

func newInspectCommand(cmdCtx *commandContext) *cobra.Command {
	var showSegments bool

	cmd := &cobra.Command{
		Use:         "inspect <book-directory>",
		Short:       "Parse a DAISY book directory and show what conversion would produce",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			bk, err := daisy.Load(args[0])
			if err != nil {
				return err
			}
			model, err := nav.Parse(bk.NCC, bk.Library)
			if err != nil {
				return err
			}
			units, err := book.Split(model)
			if err != nil {
				return err
			}
			widths := plan.BatchWidths(units)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d heading(s), %d book(s), %d SMIL document(s)\n\n",
				bk.NCC.Title, model.HeadingCount(), len(units), bk.Library.Documents())

			rows := make([][]string, 0, len(units))
			for _, unit := range units {
				segments := plan.Build(unit, widths)
				length := 0.0
				for _, seg := range segments {
					length += seg.Duration()
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", unit.Index),
					truncate(unit.Title(), 40),
					unit.DirName,
					fmt.Sprintf("%d", len(segments)),
					formatClock(length),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Book", "Directory", "Files", "Length"},
				rows, 1, 4, 5,
			))

			if !showSegments {
				return nil
			}
			for _, unit := range units {
				segments := plan.Build(unit, widths)
				proj, err := project.Build(unit, segments)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", unit.Title())
				fmt.Fprintln(out, renderSegments(segments, proj))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSegments, "segments", false, "List every output file and marker per book")
	return cmd
}

func renderSegments(segments []plan.Segment, proj *project.Model) string {
	var b strings.Builder
	rows := make([][]string, 0, len(segments))
	for _, seg := range segments {
		rows = append(rows, []string{
			seg.OutputName,
			seg.Source,
			fmt.Sprintf("%.3f", seg.Start),
			fmt.Sprintf("%.3f", seg.End),
			formatClock(seg.Duration()),
		})
	}
	b.WriteString(renderTable(
		[]string{"Output", "Source", "Clip start", "Clip end", "Length"},
		rows, 3, 4, 5,
	))
	b.WriteString("\n")

	markerRows := make([][]string, 0, len(proj.Markers))
	for _, marker := range proj.Markers {
		markerRows = append(markerRows, []string{
			formatClock(marker.Position),
			marker.Label,
		})
	}
	b.WriteString(renderTable([]string{"Position", "Marker"}, markerRows, 1))
	return b.String()
}
