// internal/asxreader/udp.go
package asxreader

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/kohldev/asterix-engine/catalog"
	"github.com/kohldev/asterix-engine/decode"
	"github.com/kohldev/asterix-engine/encoding"
)

// udpAsterixReader implements AsterixReader for UDP connections
type udpAsterixReader struct {
	conn      *net.UDPConn
	cat       *catalog.Catalogue
	stats     ReaderStats
	lastError error

	// For atomic access to stats
	bytesRead       int64
	messagesRead    int64
	transportErrors int32

	// Buffer for handling multiple blocks per packet
	pendingBlocks []*decode.DataBlock
}

// NewUDPAsterixReader creates a reader for UDP ASTERIX messages
func NewUDPAsterixReader(port int, cat *catalog.Catalogue) (AsterixReader, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalogue cannot be nil")
	}

	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on UDP port %d: %w", port, err)
	}

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))

	return &udpAsterixReader{
		conn:  conn,
		cat:   cat,
		stats: NewReaderStats(),
	}, nil
}

// Next reads and decodes the next ASTERIX block from UDP. A single UDP
// datagram may carry several back-to-back blocks; they are all parsed on
// the first read and handed out one at a time.
func (r *udpAsterixReader) Next() (*decode.DataBlock, error) {
	if r.conn == nil {
		return nil, fmt.Errorf("nil UDP connection")
	}

	if len(r.pendingBlocks) > 0 {
		blk := r.pendingBlocks[0]
		r.pendingBlocks = r.pendingBlocks[1:]
		return blk, nil
	}

	buf := encoding.GetBufferWithSize(65536) // max UDP payload
	defer encoding.PutBuffer(buf)

	n, addr, err := r.conn.ReadFromUDP(buf)
	if err != nil {
		r.lastError = err
		atomic.AddInt32(&r.transportErrors, 1)

		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, fmt.Errorf("UDP read timeout: %w", err)
		}
		return nil, fmt.Errorf("reading UDP packet: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("received empty UDP packet")
	}

	atomic.AddInt64(&r.bytesRead, int64(n))
	if addr != nil {
		r.stats.SourceAddr = addr.String()
	}
	r.stats.ConnectionTime = time.Since(r.stats.StartTime)

	data := make([]byte, n)
	copy(data, buf[:n])

	blocks, err := decode.ParseBlocks(r.cat, data)
	if len(blocks) == 0 {
		if err != nil {
			return nil, fmt.Errorf("decoding ASTERIX datagram: %w", err)
		}
		return nil, fmt.Errorf("no valid ASTERIX blocks in packet")
	}

	atomic.AddInt64(&r.messagesRead, int64(len(blocks)))

	first := blocks[0]
	if len(blocks) > 1 {
		r.pendingBlocks = blocks[1:]
	}
	return first, nil
}

// Close closes the underlying connection
func (r *udpAsterixReader) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// Protocol returns the transport protocol name
func (r *udpAsterixReader) Protocol() string {
	return "UDP"
}

// Stats returns reader statistics
func (r *udpAsterixReader) Stats() ReaderStats {
	return ReaderStats{
		BytesRead:       atomic.LoadInt64(&r.bytesRead),
		MessagesRead:    atomic.LoadInt64(&r.messagesRead),
		TransportErrors: int(atomic.LoadInt32(&r.transportErrors)),
		ConnectionTime:  time.Since(r.stats.StartTime),
		SourceAddr:      r.stats.SourceAddr,
		StartTime:       r.stats.StartTime,
	}
}

// SetReadDeadline sets a deadline for the next ReadFromUDP call
func (r *udpAsterixReader) SetReadDeadline(t time.Time) error {
	if r.conn == nil {
		return fmt.Errorf("nil UDP connection")
	}
	return r.conn.SetReadDeadline(t)
}
