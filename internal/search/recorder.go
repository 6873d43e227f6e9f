package search

import (
	"sync"
	"time"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
)

// Query is one search issued by a session.
type Query struct {
	Term       string
	Categories []enums.Category
	Total      int
}

// Recorder collapses the bursts of queries a search-as-you-type client sends into the
// one the visitor settled on. Each session gets its own Debouncer; record runs once per
// burst with the last query.
type Recorder struct {
	delay  time.Duration
	record func(sessionID string, q Query)

	mu      sync.Mutex
	pending map[string]*Debouncer[Query]
	closed  bool
}

func NewRecorder(delay time.Duration, record func(sessionID string, q Query)) *Recorder {
	return &Recorder{
		delay:   delay,
		record:  record,
		pending: map[string]*Debouncer[Query]{},
	}
}

// Observe restarts the quiet period of sessionID with q as its latest query.
func (r *Recorder) Observe(sessionID string, q Query) {
	if r == nil || r.record == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	d, ok := r.pending[sessionID]
	if !ok {
		var self *Debouncer[Query]
		self = NewDebouncer(r.delay, func(settled Query) {
			r.release(sessionID, self)
			r.record(sessionID, settled)
		})
		d = self
		r.pending[sessionID] = d
	}
	r.mu.Unlock()
	d.Trigger(q)
}

// Pending returns the number of sessions with an unsettled query.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Close delivers every pending query and ignores later observations.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.closed = true
	waiting := make([]*Debouncer[Query], 0, len(r.pending))
	for _, d := range r.pending {
		waiting = append(waiting, d)
	}
	r.mu.Unlock()

	for _, d := range waiting {
		d.Flush()
		d.Stop()
	}
}

func (r *Recorder) release(sessionID string, d *Debouncer[Query]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending[sessionID] == d {
		delete(r.pending, sessionID)
	}
}
