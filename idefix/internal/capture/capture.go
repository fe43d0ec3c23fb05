// Package capture records raw, framed ASTERIX datagrams to disk as they are
// decoded, zstd-compressed. A capture file is just the concatenation of
// every DataBlock.Raw span seen on the wire: since each block already
// carries its own 3-byte length-prefixed header, the recorded stream is
// self-delimiting and can be replayed straight back through
// decode.ParseBlocks after decompression, with no extra framing layer.
package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Writer appends raw block bytes to a zstd-compressed capture file.
type Writer struct {
	file *os.File
	enc  *zstd.Encoder
}

// Create opens path for writing and wraps it in a zstd encoder at the
// default speed/level tradeoff (capture traffic is a write-once, rarely-
// read artifact, not a hot path).
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("capture: creating %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: starting zstd encoder: %w", err)
	}
	return &Writer{file: f, enc: enc}, nil
}

// WriteBlock appends one block's raw bytes to the capture stream.
func (w *Writer) WriteBlock(raw []byte) error {
	if _, err := w.enc.Write(raw); err != nil {
		return fmt.Errorf("capture: writing block: %w", err)
	}
	return nil
}

// Close flushes and closes the zstd stream and the underlying file.
func (w *Writer) Close() error {
	encErr := w.enc.Close()
	fileErr := w.file.Close()
	if encErr != nil {
		return fmt.Errorf("capture: closing zstd encoder: %w", encErr)
	}
	return fileErr
}

// Open opens a capture file for replay, returning a reader that yields the
// decompressed, still length-prefixed ASTERIX byte stream.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: opening %s: %w", path, err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("capture: starting zstd decoder: %w", err)
	}
	return &replayReader{file: f, dec: dec}, nil
}

type replayReader struct {
	file *os.File
	dec  *zstd.Decoder
}

func (r *replayReader) Read(p []byte) (int, error) {
	return r.dec.Read(p)
}

func (r *replayReader) Close() error {
	r.dec.Close()
	return r.file.Close()
}
