package decode

import (
	"encoding/binary"

	"github.com/kohldev/asterix-engine/catalog"
)

// blockHeaderLen is the 3-byte (category, length) prefix of every block.
const blockHeaderLen = 3

// DataBlock is one parsed ASTERIX block: its category, declared length,
// the records decoded from its payload, and whether it decoded cleanly
// (spec §3 "DataBlock").
type DataBlock struct {
	Category uint8
	Length   uint16
	Records  []*Record
	Raw      []byte
	Ok       bool
	Err      error
}

// ParseBlock reads one 3-byte block header and decodes its payload
// (spec §4.5). It never resynchronises past a bad header — a declared
// length outside (3, remaining] is a framing error, full stop, matching
// the invariant the source's own bug history argues for.
func ParseBlock(cat *catalog.Catalogue, data []byte, offset int) (*DataBlock, int, error) {
	if len(data) < blockHeaderLen {
		return nil, 0, newErr(KindFraming, offset, nil, ErrFramingShort)
	}

	category := data[0]
	length := binary.BigEndian.Uint16(data[1:3])

	if length <= blockHeaderLen {
		return nil, 0, newErr(KindFraming, offset, nil, ErrFramingShort)
	}
	if int(length) > len(data) {
		return nil, 0, newErr(KindFraming, offset, nil, ErrFramingLong)
	}

	block := &DataBlock{Category: category, Length: length}
	payload := data[blockHeaderLen:length]

	cg, ok := cat.Category(category)
	if !ok {
		block.Err = newErr(KindItem, offset, nil, ErrUnknownDataItem)
		block.Raw = data[:length]
		return block, int(length), block.Err
	}

	pos := 0
	for pos < len(payload) {
		rec, n, err := ParseRecord(cat, cg, payload[pos:], offset+blockHeaderLen+pos)
		if rec != nil {
			block.Records = append(block.Records, rec)
		}
		if err != nil {
			block.Ok = false
			block.Err = err
			block.Raw = data[:length]
			return block, int(length), err
		}
		if n == 0 {
			break
		}
		pos += n
	}

	block.Ok = true
	block.Raw = data[:length]
	return block, int(length), nil
}

// ParseBlocks repeatedly invokes ParseBlock over a contiguous datagram,
// stopping at the first block that reports any error: a framing error, an
// unknown category, or a record decode error. The trailing bytes are not
// resynchronised against (per §4.5), but every block decoded up to that
// point is returned, including the failing block when its header was valid.
func ParseBlocks(cat *catalog.Catalogue, data []byte) ([]*DataBlock, error) {
	var blocks []*DataBlock
	pos := 0
	for pos < len(data) {
		blk, n, err := ParseBlock(cat, data[pos:], pos)
		if blk != nil {
			blocks = append(blocks, blk)
		}
		if err != nil {
			return blocks, err
		}
		if n == 0 {
			break
		}
		pos += n
	}
	return blocks, nil
}
