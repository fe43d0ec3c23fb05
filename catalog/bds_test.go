package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kohldev/asterix-engine/catalog"
)

const sampleBDSXML = `<?xml version="1.0"?>
<BDSRegisters>
  <Register code="0x40" name="Selected vertical intention">
    <Bits from="49" to="56" encode="unsigned">
      <BitsName>status</BitsName>
    </Bits>
  </Register>
  <Register code="0x50" name="Track and turn report">
    <Bits from="1" to="8" encode="unsigned"/>
  </Register>
</BDSRegisters>`

func TestLoadRegisterTableXML_Basic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bds.xml")
	if err := os.WriteFile(path, []byte(sampleBDSXML), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	table, err := catalog.LoadRegisterTableXML(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reg, ok := table.Lookup(0x40)
	if !ok {
		t.Fatal("expected register 0x40 to be present")
	}
	if reg.Name != "Selected vertical intention" {
		t.Errorf("unexpected name: %q", reg.Name)
	}
	if len(reg.Bits) != 1 || reg.Bits[0].Name != "status" {
		t.Errorf("unexpected bits: %+v", reg.Bits)
	}

	if _, ok := table.Lookup(0x99); ok {
		t.Error("expected 0x99 to be absent")
	}
}

func TestLoadRegisterTableXML_DuplicateCodeRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bds.xml")
	dup := `<BDSRegisters>
  <Register code="0x40" name="A"><Bits from="1" to="8" encode="unsigned"/></Register>
  <Register code="0x40" name="B"><Bits from="1" to="8" encode="unsigned"/></Register>
</BDSRegisters>`
	if err := os.WriteFile(path, []byte(dup), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := catalog.LoadRegisterTableXML(path); err == nil {
		t.Fatal("expected an error for a duplicate register code")
	}
}

func TestLoadRegisterTableXML_MissingFile(t *testing.T) {
	if _, err := catalog.LoadRegisterTableXML("/nonexistent/bds.xml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
