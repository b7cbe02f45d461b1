// Package idx mints ULIDs for X-Request-ID. A request and its retry after a
// token refresh carry the same id, so the API logs show them together.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a canonical ULID string.
type ID string

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

// Source hands out IDs that sort in creation order, even within one
// millisecond. It is safe for concurrent use.
type Source struct {
	now func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSource returns a Source reading time from now, or the wall clock when
// now is nil.
func NewSource(now func() time.Time) *Source {
	if now == nil {
		now = time.Now
	}
	return &Source{now: now, entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns the next ID.
func (s *Source) Next() ID {
	ts := ulid.Timestamp(s.now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()
	return ID(ulid.MustNew(ts, s.entropy).String())
}

var defaultSource = NewSource(nil)

// New returns an ID from the process-wide source.
func New() ID { return defaultSource.Next() }

// Parse validates s as a ULID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if _, err := ulid.ParseStrict(s); err != nil {
		return "", ErrInvalid
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }
