package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/pipeline"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/plan"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/render/floor"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output  string // output file path (or base path for multiple formats)
	formats []string
	labels  bool   // draw type labels into units
	seed    uint64 // overrides the plan file seed when set
	summary bool   // print the styled summary table
}

// errInvalidFormat reports an unsupported --format value.
func errInvalidFormat(f string) error {
	return fmt.Errorf("invalid format: %s (must be 'svg' or 'json')", f)
}

// generateCommand creates the generate command.
//
// Default settings:
//   - format: svg
//   - summary: true (styled summary on stdout)
func (c *CLI) generateCommand() *cobra.Command {
	var formatsStr string
	opts := generateOpts{summary: true}

	cmd := &cobra.Command{
		Use:   "generate [plan file]",
		Short: "Generate a floor plate layout from a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runGenerate(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw type labels into units")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "override the plan file's random seed")
	cmd.Flags().BoolVar(&opts.summary, "summary", opts.summary, "print plan summary")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, input string, opts *generateOpts) error {
	prog := newProgress(c.Logger)

	planOpts, err := c.loadOptions(input)
	if err != nil {
		return err
	}
	if opts.seed != 0 {
		planOpts.Seed = opts.seed
	}

	result, err := pipeline.Generate(cmd.Context(), planOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d units across %d cores", result.Stats.TotalUnits, len(result.Cores)))

	if err := writeOutputs(result, &planOpts, basePath(opts.output, input), opts.formats, opts.labels); err != nil {
		return err
	}
	if opts.summary {
		printSummary(result)
	}
	return nil
}

// writeOutputs renders the plan in each requested format next to basePath.
func writeOutputs(p *plan.FloorPlanData, opts *pipeline.Options, base string, formats []string, labels bool) error {
	for _, format := range formats {
		path := base + "." + format
		switch format {
		case FormatJSON:
			if err := floor.ExportJSON(p, path); err != nil {
				return err
			}
		case FormatSVG:
			svgOpts := []floor.SVGOption{
				floor.WithPalette(floor.NewPalette(opts.Colors)),
				floor.WithStats(),
			}
			if labels {
				svgOpts = append(svgOpts, floor.WithLabels())
			}
			if err := floor.ExportSVG(p, path, svgOpts...); err != nil {
				return err
			}
		default:
			return errInvalidFormat(format)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file
// paths. If output is empty, it strips the extension from input. If output
// has a format extension, it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
