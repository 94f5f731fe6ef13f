package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/adapters"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/scoring"
)

var categoryColors = map[scoring.Category]*color.Color{
	scoring.Hot:  color.New(color.FgRed, color.Bold),
	scoring.Warm: color.New(color.FgYellow, color.Bold),
	scoring.Cold: color.New(color.FgBlue, color.Bold),
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	var (
		output string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "score FILE...",
		Short: "Score one or more CSV/XLSX lead tables",
		Long: `Score reads every FILE, appends lead_score and lead_category to each row and
writes the combined table to stdout or --output. A summary goes to stderr.

Examples:
  leadctl score leads.csv
  leadctl score jan.xlsx feb.xlsx -o scored.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			tables, err := readTables(cmd.Context(), args, jobs)
			if err != nil {
				return err
			}

			header, records, err := mergeTables(args, tables)
			if err != nil {
				return err
			}
			res := analysis.Aggregate(records)

			write := func(w io.Writer) error { return adapters.WriteCSV(w, header, res.Records) }
			if isXLSX(output) {
				write = func(w io.Writer) error { return adapters.WriteXLSX(w, header, res.Records) }
			}
			if err := writeOutput(cmd, output, write); err != nil {
				return err
			}

			root.logger.ScoringLogger(fmt.Sprintf("%d files", len(args)), len(res.Records), countsByName(res.Summary), time.Since(start))

			printSummary(cmd.ErrOrStderr(), res.Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.csv or .xlsx); stdout when empty")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files read in parallel (default GOMAXPROCS)")
	return cmd
}

// readTables parses files concurrently, keeping argument order.
func readTables(ctx context.Context, paths []string, jobs int) ([]adapters.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	tables := make([]adapters.Table, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return errors.NewValidationError(fmt.Sprintf("cannot open %s", path), err)
			}
			defer errors.SafeClose(f, path)

			t, err := adapters.ReadTable(path, f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// mergeTables concatenates records. Every table must share the first
// table's header since passthrough columns are positional.
func mergeTables(paths []string, tables []adapters.Table) ([]string, []analysis.Record, error) {
	var records []analysis.Record
	header := tables[0].Header
	for i, t := range tables {
		if !slices.Equal(t.Header, header) {
			return nil, nil, errors.NewValidationError(
				fmt.Sprintf("%s: columns differ from %s", paths[i], paths[0]),
				strings.Join(t.Header, ","),
			)
		}
		records = append(records, t.Records...)
	}
	return header, records, nil
}

func countsByName(s analysis.Summary) map[string]int {
	out := make(map[string]int, len(s.CategoryCounts))
	for k, v := range s.CategoryCounts {
		out[string(k)] = v
	}
	return out
}

func printSummary(w io.Writer, s analysis.Summary) {
	fmt.Fprintf(w, "Scored %d leads\n", s.Count)
	for _, cat := range []scoring.Category{scoring.Hot, scoring.Warm, scoring.Cold} {
		categoryColors[cat].Fprintf(w, "  %-10s", cat.Label())
		fmt.Fprintf(w, " %d\n", s.CategoryCounts[cat])
	}
	if s.MeanScore != nil {
		fmt.Fprintf(w, "  mean %.2f  median %.2f  min %.2f  max %.2f\n", *s.MeanScore, *s.MedianScore, *s.MinScore, *s.MaxScore)
	}
}
