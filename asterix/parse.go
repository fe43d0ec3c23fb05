// Package asterix is the top-level entry point over the catalogue-driven
// decoder: it consumes a framed datagram and a process-wide Catalogue and
// emits a sequence of DataBlocks, never panicking on malformed input.
package asterix

import (
	"github.com/kohldev/asterix-engine/catalog"
	"github.com/kohldev/asterix-engine/decode"
)

// Options configures a single Parse call.
type Options struct {
	// Verbose, when true, asks callers (not Parse itself) to log each
	// DecodeError as it is produced rather than only at the end.
	Verbose bool

	// CategoryFilter, if non-nil, skips blocks whose category does not
	// match. Each block is still framed and decoded before the filter is
	// applied; skipped blocks are neither returned nor have their decode
	// errors reported. Framing errors are reported whatever the category.
	CategoryFilter *uint8

	// MaxRecords, if non-nil, stops decoding once that many records
	// (summed across all blocks) have been produced. The limit is checked
	// between blocks, so the block that reaches it is returned whole and
	// the total can exceed MaxRecords.
	MaxRecords *int
}

// ParseResult is the outcome of one Parse call: the blocks decoded (each
// carrying its own Ok/Err) and the flat list of errors encountered, in
// the order they occurred.
type ParseResult struct {
	Blocks []*decode.DataBlock
	Errors []error
}

// Parse decodes every block in bytes against catalogue, applying options.
// It never consults the clock or any other ambient state; callers own
// timestamps. Parse never panics: malformed input is reported through
// ParseResult.Errors, and whatever blocks/records decoded successfully
// before the first fatal error are still returned.
func Parse(catalogue *catalog.Catalogue, bytes []byte, options Options) ParseResult {
	var result ParseResult

	if catalogue == nil {
		result.Errors = append(result.Errors, ErrNoCatalogue)
		return result
	}
	if len(bytes) == 0 {
		result.Errors = append(result.Errors, ErrEmptyInput)
		return result
	}

	recordCount := 0
	pos := 0
	for pos < len(bytes) {
		if options.MaxRecords != nil && recordCount >= *options.MaxRecords {
			break
		}

		blk, n, err := decode.ParseBlock(catalogue, bytes[pos:], pos)
		if n == 0 {
			if err != nil {
				result.Errors = append(result.Errors, err)
			}
			break
		}
		pos += n

		if blk == nil {
			continue
		}
		if options.CategoryFilter != nil && blk.Category != *options.CategoryFilter {
			continue
		}

		result.Blocks = append(result.Blocks, blk)
		recordCount += len(blk.Records)
		if err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	return result
}
