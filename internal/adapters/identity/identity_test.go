package identity

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUUIDGeneratorIssuesDistinctUUIDs(t *testing.T) {
	gen := UUIDGenerator{}
	a, b := gen.NextID(), gen.NextID()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("expected a UUID, got %q: %v", a, err)
	}
}

func TestTimestampGeneratorIsMonotonicWithinOneMillisecond(t *testing.T) {
	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := &TimestampGenerator{now: func() time.Time { return fixed }}

	first := gen.NextID()
	second := gen.NextID()
	if first != strconv.FormatInt(fixed.UnixMilli(), 10) {
		t.Fatalf("unexpected first id %q", first)
	}
	a, _ := strconv.ParseInt(first, 10, 64)
	b, _ := strconv.ParseInt(second, 10, 64)
	if b != a+1 {
		t.Fatalf("expected %d, got %d", a+1, b)
	}
}

func TestNewGenerator(t *testing.T) {
	if _, err := NewGenerator("uuid"); err != nil {
		t.Fatalf("uuid: %v", err)
	}
	if _, err := NewGenerator("timestamp"); err != nil {
		t.Fatalf("timestamp: %v", err)
	}
	if _, err := NewGenerator("serial"); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}

func TestSystemClockIsUTC(t *testing.T) {
	if loc := (SystemClock{}).Now().Location(); loc != time.UTC {
		t.Fatalf("expected UTC, got %v", loc)
	}
}
