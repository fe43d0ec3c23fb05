// internal/decoder/decoder.go
package decoder

import (
	"fmt"

	"github.com/kohldev/asterix-engine/catalog"
)

// Config describes which category definitions to load for a run: any
// combination of catalogue XML files, a shared BDS register table, and a
// YAML override file layered on top. When no paths are given, the
// built-in CAT048 catalogue is used.
type Config struct {
	CategoryXML []string
	BDSTable    string
	OverrideYML string
}

// CreateCatalogue builds the process-wide Catalogue for a run.
func CreateCatalogue(config Config) (*catalog.Catalogue, error) {
	var cat *catalog.Catalogue
	var err error

	switch {
	case len(config.CategoryXML) == 0:
		cat = catalog.Builtin()
		if config.BDSTable != "" {
			var bds *catalog.RegisterTable
			bds, err = catalog.LoadRegisterTableXML(config.BDSTable)
			if err == nil {
				cat = cat.WithBDS(bds)
			}
		}
	case config.BDSTable != "":
		cat, err = catalog.LoadWithBDS(config.CategoryXML, config.BDSTable)
	default:
		cat, err = catalog.Load(config.CategoryXML)
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}

	if config.OverrideYML != "" {
		overrides, err := catalog.LoadOverridesYAML(config.OverrideYML)
		if err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
		cat = cat.Merge(overrides)
	}

	return cat, nil
}
