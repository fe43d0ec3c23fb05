// internal/asxreader/tcp.go
package asxreader

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/kohldev/asterix-engine/catalog"
	"github.com/kohldev/asterix-engine/decode"
)

// tcpAsterixReader implements AsterixReader for TCP connections
type tcpAsterixReader struct {
	conn      net.Conn
	listener  net.Listener
	cat       *catalog.Catalogue
	stats     ReaderStats
	lastError error

	// For atomic access to stats
	bytesRead       int64
	messagesRead    int64
	transportErrors int32 // Using int32 for atomic operations
}

// NewTCPAsterixReader creates a reader for TCP ASTERIX messages
func NewTCPAsterixReader(port int, cat *catalog.Catalogue) (AsterixReader, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalogue cannot be nil")
	}

	addr := fmt.Sprintf(":%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on TCP port %d: %w", port, err)
	}

	fmt.Fprintf(os.Stderr, "Waiting for TCP connection on port %d...\n", port)
	conn, err := listener.Accept()
	if err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to accept TCP connection: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))

	return &tcpAsterixReader{
		conn:     conn,
		listener: listener,
		cat:      cat,
		stats:    NewReaderStats(),
	}, nil
}

// Next reads one block's 3-byte header, then its declared-length payload,
// off the TCP stream, and decodes it.
func (r *tcpAsterixReader) Next() (*decode.DataBlock, error) {
	if r.conn == nil {
		return nil, fmt.Errorf("nil connection in TCP reader")
	}

	var header [3]byte
	if _, err := io.ReadFull(r.conn, header[:]); err != nil {
		r.lastError = err
		atomic.AddInt32(&r.transportErrors, 1)
		return nil, err
	}

	length := binary.BigEndian.Uint16(header[1:3])
	if length <= 3 {
		atomic.AddInt32(&r.transportErrors, 1)
		return nil, fmt.Errorf("invalid block length %d", length)
	}

	data := make([]byte, length)
	copy(data, header[:])
	if _, err := io.ReadFull(r.conn, data[3:]); err != nil {
		r.lastError = err
		atomic.AddInt32(&r.transportErrors, 1)
		return nil, err
	}

	blk, _, err := decode.ParseBlock(r.cat, data, 0)
	if err != nil && blk == nil {
		r.lastError = err
		atomic.AddInt32(&r.transportErrors, 1)
		return nil, err
	}

	atomic.AddInt64(&r.bytesRead, int64(length))
	atomic.AddInt64(&r.messagesRead, 1)
	r.stats.SourceAddr = r.conn.RemoteAddr().String()
	r.stats.ConnectionTime = time.Since(r.stats.StartTime)

	return blk, nil
}

// Close closes the underlying connection and listener
func (r *tcpAsterixReader) Close() error {
	// Close the connection first
	connErr := r.conn.Close()

	// Then close the listener
	listenerErr := r.listener.Close()

	// Return the first error encountered
	if connErr != nil {
		return connErr
	}
	return listenerErr
}

// Protocol returns the transport protocol name
func (r *tcpAsterixReader) Protocol() string {
	return "TCP"
}

// Stats returns reader statistics
func (r *tcpAsterixReader) Stats() ReaderStats {
	// Create a copy to avoid race conditions
	return ReaderStats{
		BytesRead:       atomic.LoadInt64(&r.bytesRead),
		MessagesRead:    atomic.LoadInt64(&r.messagesRead),
		ConnectionTime:  time.Since(r.stats.StartTime),
		SourceAddr:      r.stats.SourceAddr,
		TransportErrors: int(atomic.LoadInt32(&r.transportErrors)),
		StartTime:       r.stats.StartTime,
	}
}

// SetReadDeadline sets a deadline for the next read from the TCP connection
func (r *tcpAsterixReader) SetReadDeadline(t time.Time) error {
	if r.conn == nil {
		return fmt.Errorf("nil TCP connection")
	}
	return r.conn.SetReadDeadline(t)
}
