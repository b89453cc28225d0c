// Package identity provides the identifier generators and clock injected into the use cases.
package identity

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/todoplus/internal/infrastructure/config"
	"github.com/taskmaster/todoplus/internal/ports"
)

// UUIDGenerator issues random version 4 UUIDs
type UUIDGenerator struct{}

func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}

// TimestampGenerator issues millisecond timestamps, bumped forward when two calls
// land on the same millisecond so ids stay unique and ordered within a process.
type TimestampGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewTimestampGenerator creates a generator driven by the wall clock
func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{now: time.Now}
}

func (g *TimestampGenerator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.now().UnixMilli()
	if next <= g.last {
		next = g.last + 1
	}
	g.last = next

	return strconv.FormatInt(next, 10)
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewGenerator returns the generator for a configured id scheme
func NewGenerator(scheme string) (ports.IDGenerator, error) {
	switch scheme {
	case config.IDSchemeUUID, "":
		return UUIDGenerator{}, nil
	case config.IDSchemeTimestamp:
		return NewTimestampGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", scheme)
	}
}
