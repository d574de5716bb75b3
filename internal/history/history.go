// Package history tracks the recent search keywords of one session.
package history

import (
	"strings"
	"sync"
)

// DefaultCapacity is the number of keywords retained.
const DefaultCapacity = 10

// Tracker is a most-recent-first keyword list. Re-recording a keyword moves
// it to the front. Safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	capacity int
	keywords []string
}

// NewTracker returns an empty tracker; capacity <= 0 means DefaultCapacity.
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{capacity: capacity}
}

// Record inserts keyword at the front, truncating to capacity. Blank keywords are ignored.
func (t *Tracker) Record(keyword string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]string, 0, min(len(t.keywords)+1, t.capacity))
	next = append(next, keyword)
	for _, kw := range t.keywords {
		if len(next) == t.capacity {
			break
		}
		if kw != keyword {
			next = append(next, kw)
		}
	}
	t.keywords = next
}

// Clear drops every keyword.
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.keywords = nil
	t.mu.Unlock()
}

// List returns a copy of the keywords, most recent first.
func (t *Tracker) List() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.keywords))
	copy(out, t.keywords)
	return out
}

// Len reports the number of stored keywords.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.keywords)
}
