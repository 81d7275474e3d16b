// Package idgen produces entity ids from the creation time in milliseconds.
package idgen

import (
	"strconv"
	"sync"
	"time"
)

// Generator hands out millisecond timestamp ids. Ids never repeat: a call in the same
// millisecond as the previous one (or with a clock that went backwards) gets last+1.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock is used by tests that need deterministic ids.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}
