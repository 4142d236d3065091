// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    DecodeFailedEvery: 10, // sample logs: ~every 10th decode failure
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	conv, _ := jsonable.New[User](jsonable.Options{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/jsonable"
)

// Hooks forwards events to inner on a bounded queue. Events are dropped
// (and counted) when the queue is full; calls after Close are dropped too.
type Hooks struct {
	inner   jsonable.Hooks
	q       chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex // guards closed against concurrent sends
	closed  bool
	dropped atomic.Uint64
}

var _ jsonable.Hooks = (*Hooks)(nil)

func New(inner jsonable.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Safe to call twice.
func (h *Hooks) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.q)
	h.mu.Unlock()
	h.wg.Wait()
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) EncodeFailed(typeName, op string, err *jsonable.Error) {
	h.try(func() { h.inner.EncodeFailed(typeName, op, err) })
}

func (h *Hooks) DecodeFailed(typeName, op string, err *jsonable.Error) {
	h.try(func() { h.inner.DecodeFailed(typeName, op, err) })
}

func (h *Hooks) PayloadRejected(typeName string, size, limit int64) {
	h.try(func() { h.inner.PayloadRejected(typeName, size, limit) })
}
