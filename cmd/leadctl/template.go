package main

import (
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/adapters"
)

func newTemplateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an example upload table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd, output, adapters.WriteExamples)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; stdout when empty")
	return cmd
}
