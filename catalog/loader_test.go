package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kohldev/asterix-engine/catalog"
)

const sampleCategoryXML = `<Category id="48" name="Monoradar Target Reports" ver="1.21">
  <DataItem id="010" rule="mandatory">
    <DataItemName>Data Source Identifier</DataItemName>
    <DataItemFormat>
      <Fixed length="2">
        <Bits from="16" to="9"><BitsName>SAC</BitsName></Bits>
        <Bits from="8" to="1"><BitsName>SIC</BitsName></Bits>
      </Fixed>
    </DataItemFormat>
  </DataItem>
  <DataItem id="040" rule="mandatory">
    <DataItemName>Measured Position</DataItemName>
    <DataItemFormat>
      <Fixed length="4">
        <Bits from="17" to="32" encode="unsigned"><BitsName>RHO</BitsName></Bits>
        <Bits from="1" to="16" encode="unsigned"><BitsName>THETA</BitsName></Bits>
      </Fixed>
    </DataItemFormat>
  </DataItem>
  <UAP>
    <UAPItem bit="0" frn="1">010</UAPItem>
    <UAPItem bit="1" frn="2">040</UAPItem>
    <UAPItem bit="2" frn="3">010</UAPItem>
    <UAPItem bit="3" frn="4">010</UAPItem>
    <UAPItem bit="4" frn="5">010</UAPItem>
    <UAPItem bit="5" frn="6">010</UAPItem>
    <UAPItem bit="6" frn="7">010</UAPItem>
  </UAP>
</Category>
`

func writeTempXML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cat.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp xml: %v", err)
	}
	return path
}

func TestLoadXML_Basic(t *testing.T) {
	path := writeTempXML(t, sampleCategoryXML)

	cg, err := catalog.LoadXML(path)
	if err != nil {
		t.Fatalf("LoadXML failed: %v", err)
	}

	if cg.ID != 48 {
		t.Errorf("got category id %d, want 48", cg.ID)
	}

	item, ok := cg.Item("010")
	if !ok {
		t.Fatal("missing item 010")
	}
	if item.Format.Tag != catalog.Fixed || item.Format.Len != 2 {
		t.Errorf("unexpected format for 010: %+v", item.Format)
	}
	if len(item.Format.Bits) != 2 {
		t.Fatalf("expected 2 bit descriptors, got %d", len(item.Format.Bits))
	}
	if item.Format.Bits[0].Name != "SAC" || item.Format.Bits[0].FromBit != 9 || item.Format.Bits[0].ToBit != 16 {
		t.Errorf("unexpected SAC descriptor: %+v", item.Format.Bits[0])
	}

	if len(cg.UAPs) != 1 {
		t.Fatalf("expected 1 UAP, got %d", len(cg.UAPs))
	}
	ui, ok := cg.UAPs[0].ItemAt(1)
	if !ok || ui.ItemID != "010" {
		t.Errorf("expected FRN 1 -> 010, got %+v", ui)
	}
}

func TestLoadXML_UnknownElementFatal(t *testing.T) {
	bad := `<Category id="1" name="x">
  <Bogus/>
  <UAP><UAPItem bit="0" frn="1">010</UAPItem></UAP>
</Category>`
	path := writeTempXML(t, bad)

	if _, err := catalog.LoadXML(path); err == nil {
		t.Fatal("expected error for unknown element")
	}
}

func TestLoad_DuplicateCategoryRejected(t *testing.T) {
	path := writeTempXML(t, sampleCategoryXML)

	if _, err := catalog.Load([]string{path, path}); err == nil {
		t.Fatal("expected duplicate category id to be rejected")
	}
}
