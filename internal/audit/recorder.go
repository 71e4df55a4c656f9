// Package audit records admin activity into the admin_logs table without
// putting the database write on the request path.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/store"
)

const defaultBuffer = 256

// Recorder writes audit entries asynchronously through a buffered channel
// and a single worker. Record never blocks the caller: when the buffer is
// full the entry is dropped and counted, on the grounds that a slow audit
// trail must not slow down or wedge the API.
type Recorder struct {
	store  *store.Store
	logger *slog.Logger

	ch      chan model.AuditEntry
	wg      sync.WaitGroup
	mu      sync.RWMutex // guards close against in-flight sends
	closed  bool
	dropped atomic.Int64
}

// NewRecorder starts the audit worker. A buffer of 0 uses the default.
func NewRecorder(st *store.Store, logger *slog.Logger, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	r := &Recorder{
		store:  st,
		logger: logger,
		ch:     make(chan model.AuditEntry, buffer),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for e := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.InsertAuditEntry(ctx, &e); err != nil {
			r.logger.Error("audit write failed", "action", e.Action, "error", err)
		}
		cancel()
	}
}

// Record queues an audit entry. Entries submitted after Close, or while
// the buffer is full, are dropped.
func (r *Recorder) Record(e model.AuditEntry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.ch <- e:
	default:
		if n := r.dropped.Add(1); n == 1 || n%100 == 0 {
			r.logger.Warn("audit buffer full, dropping entries", "dropped", n)
		}
	}
}

// Dropped reports how many entries have been discarded since startup.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting entries and waits for the queue to drain.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()
	r.wg.Wait()
}

// JSON renders v for the old_data/new_data columns. Returns nil when v is
// nil or cannot be marshalled, which the schema stores as NULL.
func JSON(v interface{}) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
