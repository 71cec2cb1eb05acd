package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/pipeline"
)

// variantsCommand creates the variants command, which produces one plan per
// generation strategy so the options can be compared side by side.
func (c *CLI) variantsCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		labels     bool
	)

	cmd := &cobra.Command{
		Use:   "variants [plan file]",
		Short: "Generate one floor plate per strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := validateFormats(formats); err != nil {
				return err
			}
			return c.runVariants(cmd, args[0], output, formats, labels)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "base output path (default: plan file base name)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw type labels into units")

	return cmd
}

func (c *CLI) runVariants(cmd *cobra.Command, input, output string, formats []string, labels bool) error {
	prog := newProgress(c.Logger)

	planOpts, err := c.loadOptions(input)
	if err != nil {
		return err
	}

	variants, err := pipeline.GenerateVariants(cmd.Context(), planOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d variants", len(variants)))

	base := basePath(output, input)
	for _, v := range variants {
		vbase := fmt.Sprintf("%s_%s", base, v.Label)
		if err := writeOutputs(v.Plan, &planOpts, vbase, formats, labels); err != nil {
			return err
		}
	}

	for _, v := range variants {
		printSuccess("%s: %d units, %.1f%% efficient",
			v.Label, v.Plan.Stats.TotalUnits, v.Plan.Stats.Efficiency*100)
	}
	return nil
}
