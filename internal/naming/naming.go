// Package naming generates default module names.
//
// A Namer is owned by the caller (normally through an nn.Builder), so two
// builders never share a counter and tests stay isolated.
package naming

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Namer produces a fresh name for a module of the given kind.
type Namer interface {
	Next(kind string) string
}

// Counter names modules kind0, kind1, ... with one counter per kind.
type Counter struct {
	next map[string]int
}

// NewCounter creates a Counter with every kind starting at zero.
func NewCounter() *Counter {
	return &Counter{next: make(map[string]int)}
}

// Next returns kind followed by the kind's current index and advances it.
func (c *Counter) Next(kind string) string {
	index := c.next[kind]
	c.next[kind]++
	return fmt.Sprintf("%s%d", kind, index)
}

// Peek returns the index the next call to Next(kind) will use.
func (c *Counter) Peek(kind string) int {
	return c.next[kind]
}

// UUID names modules kind_<uuid> using random UUIDs with dashes removed, so
// names stay valid as global parameter name prefixes.
type UUID struct{}

// Next returns a random name for kind.
func (UUID) Next(kind string) string {
	return kind + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
