package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kohldev/asterix-engine/catalog"
)

const sampleOverridesYAML = `
categories:
  - id: 48
    name: "Monoradar Target Reports (override)"
    items:
      - id: "010"
        name: "Data Source Identifier"
        format:
          tag: fixed
          len: 2
          bits:
            - {from: 9, to: 16, name: "SAC"}
            - {from: 1, to: 8, name: "SIC"}
    uaps:
      - name: default
        items:
          - {frn: 1, bit: 7, item_id: "010"}
          - {frn: 2, bit: 6, item_id: "020"}
          - {frn: 3, bit: 5, item_id: "030"}
          - {frn: 4, bit: 4, item_id: "040"}
          - {frn: 5, bit: 3, item_id: "050"}
          - {frn: 6, bit: 2, item_id: "060"}
          - {frn: 7, bit: 1, item_id: "070"}
`

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadOverridesYAML_Basic(t *testing.T) {
	path := writeTempYAML(t, sampleOverridesYAML)

	overrides, err := catalog.LoadOverridesYAML(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cat48, ok := overrides[48]
	if !ok {
		t.Fatal("expected category 48 in overrides")
	}
	if _, ok := cat48.Item("010"); !ok {
		t.Error("expected item 010 to be present")
	}
	if len(cat48.UAPs) != 1 || len(cat48.UAPs[0].Items) != 7 {
		t.Fatalf("unexpected UAP shape: %+v", cat48.UAPs)
	}
}

func TestCatalogue_MergeAppliesOverride(t *testing.T) {
	base := catalog.Builtin()
	path := writeTempYAML(t, sampleOverridesYAML)
	overrides, err := catalog.LoadOverridesYAML(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := base.Merge(overrides)
	cg, ok := merged.Category(48)
	if !ok {
		t.Fatal("expected category 48 to still exist after merge")
	}
	if cg.Name != "Monoradar Target Reports (override)" {
		t.Errorf("expected override name to win, got %q", cg.Name)
	}
}

func TestLoadOverridesYAML_UnknownFormatTagIsError(t *testing.T) {
	bad := `
categories:
  - id: 1
    name: bad
    items:
      - id: "010"
        name: x
        format:
          tag: not-a-real-tag
    uaps:
      - items:
          - {frn: 1, bit: 7, item_id: "010"}
          - {frn: 2, bit: 6, item_id: "010"}
          - {frn: 3, bit: 5, item_id: "010"}
          - {frn: 4, bit: 4, item_id: "010"}
          - {frn: 5, bit: 3, item_id: "010"}
          - {frn: 6, bit: 2, item_id: "010"}
          - {frn: 7, bit: 1, item_id: "010"}
`
	path := writeTempYAML(t, bad)
	if _, err := catalog.LoadOverridesYAML(path); err == nil {
		t.Fatal("expected an error for an unknown format tag")
	}
}
