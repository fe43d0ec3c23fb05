// cmd/list.go
package cmd

import (
	"fmt"

	"github.com/kohldev/asterix-engine/idefix/internal/decoder"
	"github.com/spf13/cobra"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the categories available in the loaded catalogue",
		Long: `Load the catalogue (built-in CAT048 unless --catalogue is given) and
print each category's id, name, and declared UAPs.`,
		Run: runList,
	}

	addCatalogueFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	logger := ConfigureLogger(Verbose, JsonLogs)

	cat, err := decoder.CreateCatalogue(catalogueConfig())
	if err != nil {
		logger.Error("failed to load catalogue", "error", err)
		return
	}

	logger.Info("Loaded categories")
	for _, id := range cat.CategoryIDs() {
		cg, _ := cat.Category(id)
		logger.Info("Category",
			"id", id,
			"name", cg.Name,
			"uaps", len(cg.UAPs),
			"items", len(cg.Items),
			"fingerprint", fmt.Sprintf("%016x", cg.Fingerprint()),
		)
	}
}
