package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/adapters"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/analysis"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/dataset"
)

func newSampleCmd(root *rootOptions) *cobra.Command {
	var (
		size   int
		seed   uint64
		output string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate synthetic applicant records",
		Long: `Sample writes generated applicants as CSV. The same --seed always yields the
same records. Without --seed, SAMPLE_SEED is used, or a random seed otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("size") {
				size = root.cfg.Session.SampleSize
			}
			if !cmd.Flags().Changed("seed") {
				if root.cfg.Session.SampleSeed != nil {
					seed = *root.cfg.Session.SampleSeed
				} else {
					seed = rand.Uint64()
				}
			}

			gen := dataset.NewGenerator(size)
			res := analysis.Aggregate(gen.Generate(seed))

			err := writeOutput(cmd, output, func(w io.Writer) error {
				return adapters.WriteCSV(w, gen.Header(), res.Records)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "seed %d\n", seed)
			printSummary(cmd.ErrOrStderr(), res.Summary)
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", dataset.DefaultSize, "number of applicants")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generator seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; stdout when empty")
	return cmd
}
