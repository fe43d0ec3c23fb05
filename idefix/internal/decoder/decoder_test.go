// internal/decoder/decoder_test.go
package decoder

import "testing"

func TestCreateCatalogue_Builtin(t *testing.T) {
	cat, err := CreateCatalogue(Config{})
	if err != nil {
		t.Fatalf("CreateCatalogue failed: %v", err)
	}

	if _, ok := cat.Category(48); !ok {
		t.Fatal("built-in catalogue missing CAT048")
	}
}

func TestCreateCatalogue_MissingOverrideFile(t *testing.T) {
	_, err := CreateCatalogue(Config{OverrideYML: "/nonexistent/overrides.yml"})
	if err == nil {
		t.Fatal("expected error loading a nonexistent override file")
	}
}
