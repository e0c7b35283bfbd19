package platypus

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/pior/platypus/meta"
)

// NewConnection wraps an established connection to the warm tier with
// buffered reader/writer, matching the teacher's meta-protocol client
// connection wrapper.
func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		Conn:   conn,
		Reader: bufio.NewReader(conn),
		Writer: bufio.NewWriter(conn),
	}
}

// Connection wraps a network connection with buffered reader and writer
// for efficient I/O against the warm-tier memcached.
type Connection struct {
	net.Conn
	Reader *bufio.Reader
	Writer *bufio.Writer
}

// Send writes req and reads back a single response.
func (c *Connection) Send(req *meta.Request) (*meta.Response, error) {
	if err := meta.WriteRequest(c.Writer, req); err != nil {
		return nil, err
	}
	return meta.ReadResponse(c.Reader)
}

// Resource represents a connection resource checked out from the pool.
type Resource interface {
	Value() *Connection
	Release()
	ReleaseUnused()
	Destroy()
	CreationTime() time.Time
	IdleDuration() time.Duration
}

// Pool manages pooled connections to the warm tier.
type Pool interface {
	Acquire(ctx context.Context) (Resource, error)
	AcquireAllIdle() []Resource
	Close()
	Stats() PoolStats
}

// PoolStats is a snapshot of pool activity, surfaced through the stats
// command and metrics.
type PoolStats struct {
	TotalConns        int32
	IdleConns         int32
	ActiveConns       int32
	AcquireCount      uint64
	AcquireWaitCount  uint64
	CreatedConns      uint64
	DestroyedConns    uint64
	AcquireErrors     uint64
	AcquireWaitTimeNs uint64
}
