// cmd/common.go
package cmd

import (
	"log/slog"
	"os"

	"github.com/kohldev/asterix-engine/idefix/internal/decoder"
	"github.com/spf13/cobra"
)

var (
	catalogueXML []string
	bdsTable     string
	overrideFile string
)

// addCatalogueFlags registers the --catalogue/--bds/--overrides flags
// shared by every subcommand that needs to build a Catalogue.
func addCatalogueFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&catalogueXML, "catalogue", nil, "Category XML file(s) (default: built-in CAT048)")
	cmd.Flags().StringVar(&bdsTable, "bds", "", "Shared BDS register table XML file")
	cmd.Flags().StringVar(&overrideFile, "overrides", "", "YAML overrides file layered on the loaded catalogue")
}

// catalogueConfig builds a decoder.Config from the shared flags.
func catalogueConfig() decoder.Config {
	return decoder.Config{
		CategoryXML: catalogueXML,
		BDSTable:    bdsTable,
		OverrideYML: overrideFile,
	}
}

// ConfigureLogger sets up a structured logger with appropriate options
func ConfigureLogger(verbose bool, jsonFormat bool) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if verbose {
		opts.Level = slog.LevelDebug
	}

	if jsonFormat {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}
