// Package idx generates the ULIDs used as row ids by the SQL drivers and as
// request ids in logs.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// Monotonic entropy keeps ids minted in the same millisecond ordered, which
// the SQL drivers rely on for newest-first listings.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a lexicographically sortable ULID for the current time.
func New() ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String())
}

// Valid reports whether s is a well-formed ULID. Ids coming from URLs and
// token claims go through here before they reach a query.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

func (id ID) String() string { return string(id) }
