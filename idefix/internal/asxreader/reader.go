// internal/asxreader/reader.go
package asxreader

import (
	"fmt"
	"io"
	"time"

	"github.com/kohldev/asterix-engine/catalog"
	"github.com/kohldev/asterix-engine/decode"
)

// AsterixReader provides a unified interface for reading ASTERIX blocks
// regardless of the underlying transport protocol.
type AsterixReader interface {
	io.Closer
	Next() (*decode.DataBlock, error)
	Protocol() string
	Stats() ReaderStats
}

// DeadlineSetter is an interface for readers that support setting read deadlines
type DeadlineSetter interface {
	SetReadDeadline(t time.Time) error
}

// ReaderStats contains statistics about the reader
type ReaderStats struct {
	BytesRead       int64
	MessagesRead    int64
	ConnectionTime  time.Duration
	SourceAddr      string // Remote address (if applicable)
	TransportErrors int    // Number of transport errors
	StartTime       time.Time
}

// NewReaderStats creates a new ReaderStats struct
func NewReaderStats() ReaderStats {
	return ReaderStats{
		StartTime: time.Now(),
	}
}

// NewAsterixReader creates an appropriate AsterixReader based on protocol
func NewAsterixReader(protocol string, port int, cat *catalog.Catalogue) (AsterixReader, error) {
	switch protocol {
	case "udp":
		return NewUDPAsterixReader(port, cat)
	case "tcp":
		return NewTCPAsterixReader(port, cat)
	default:
		return nil, fmt.Errorf("unsupported protocol: %s", protocol)
	}
}
