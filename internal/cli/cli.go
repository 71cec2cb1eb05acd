// Package cli implements the floorplate command-line interface.
//
// This package provides commands for generating apartment floor plate
// layouts from TOML plan files, producing design variants, and serving the
// generator over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Produce a floor plan from a plan file
//   - variants: Produce one plan per generation strategy
//   - serve: Run the generator as an HTTP service
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The shared
// logger is threaded into the pipeline so allocation decisions surface as
// debug output.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/buildinfo"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/config"
	"github.com/DanielGameiroAutodesk/floorplate-generator/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "floorplate"

	// FormatSVG and FormatJSON are the supported output formats.
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Floorplate generates apartment floor plate layouts",
		Long:         `Floorplate is a CLI tool for generating double-loaded corridor apartment floor plates: it solves unit counts against a requested mix, places egress cores, and lays out units with corner and core-wrap handling.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.variantsCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadOptions reads a plan file and wires in the CLI's logger.
func (c *CLI) loadOptions(path string) (pipeline.Options, error) {
	opts, err := config.Load(path)
	if err != nil {
		return opts, err
	}
	opts.Logger = c.Logger
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{FormatSVG: true, FormatJSON: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errInvalidFormat(f)
		}
	}
	return nil
}
