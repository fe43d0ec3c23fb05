package decode_test

import (
	"testing"

	"github.com/kohldev/asterix-engine/catalog"
	"github.com/kohldev/asterix-engine/decode"
)

func TestParseBlock_Basic(t *testing.T) {
	cat := catalog.Builtin()
	// header: category 48, length 6; payload: FSPEC(0x80) + item010(0x19,0xC9)
	data := []byte{48, 0x00, 0x06, 0x80, 0x19, 0xC9}

	blk, n, err := decode.ParseBlock(cat, data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 bytes consumed, got %d", n)
	}
	if blk.Category != 48 || blk.Length != 6 {
		t.Errorf("unexpected header: %+v", blk)
	}
	if !blk.Ok || len(blk.Records) != 1 {
		t.Fatalf("expected 1 clean record, got ok=%v records=%d", blk.Ok, len(blk.Records))
	}
}

func TestParseBlock_LengthBelowHeaderIsFramingError(t *testing.T) {
	cat := catalog.Builtin()
	data := []byte{48, 0x00, 0x02}

	_, _, err := decode.ParseBlock(cat, data, 0)
	if err == nil {
		t.Fatal("expected framing error for length <= 3")
	}
}

func TestParseBlock_LengthExceedsInputIsFramingError(t *testing.T) {
	cat := catalog.Builtin()
	data := []byte{48, 0x00, 0xFF, 0x80}

	_, _, err := decode.ParseBlock(cat, data, 0)
	if err == nil {
		t.Fatal("expected framing error for declared length > remaining input")
	}
}

func TestParseBlocks_MultipleBlocksInOneDatagram(t *testing.T) {
	cat := catalog.Builtin()
	one := []byte{48, 0x00, 0x06, 0x80, 0x19, 0xC9}
	data := append(append([]byte{}, one...), one...)

	blocks, err := decode.ParseBlocks(cat, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
}

func TestParseBlock_TwoRecordsInPayload(t *testing.T) {
	cat := catalog.Builtin()
	// two back-to-back records, each FSPEC(0x80) + item010(SAC,SIC);
	// distinct SAC/SIC values let the assertions tell them apart and
	// catch a decoder that re-reads record #1 instead of advancing.
	rec1 := []byte{0x80, 0x19, 0xC9}
	rec2 := []byte{0x80, 0x35, 0x46}
	payload := append(append([]byte{}, rec1...), rec2...)
	data := append([]byte{48, 0x00, byte(3 + len(payload))}, payload...)

	blk, n, err := decode.ParseBlock(cat, data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(data) {
		t.Fatalf("expected %d bytes consumed, got %d", len(data), n)
	}
	if !blk.Ok || len(blk.Records) != 2 {
		t.Fatalf("expected 2 clean records, got ok=%v records=%d", blk.Ok, len(blk.Records))
	}

	sacSic := func(rec *decode.Record) (uint64, uint64) {
		for _, it := range rec.Items {
			if it.Description.ID != "010" {
				continue
			}
			sac, _ := it.Value.Field("SAC")
			sic, _ := it.Value.Field("SIC")
			return sac.Uint, sic.Uint
		}
		t.Fatalf("record missing item 010")
		return 0, 0
	}

	sac1, sic1 := sacSic(blk.Records[0])
	sac2, sic2 := sacSic(blk.Records[1])
	if sac1 != 0x19 || sic1 != 0xC9 {
		t.Errorf("record 1: unexpected SAC/SIC %02X/%02X", sac1, sic1)
	}
	if sac2 != 0x35 || sic2 != 0x46 {
		t.Errorf("record 2: unexpected SAC/SIC %02X/%02X, decoder likely re-read record 1", sac2, sic2)
	}
}

func TestParseBlock_UnknownCategory(t *testing.T) {
	cat := catalog.Builtin()
	data := []byte{200, 0x00, 0x04, 0x00}

	_, _, err := decode.ParseBlock(cat, data, 0)
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}
