package services

import "sync/atomic"

// inflight admits one operation at a time. A second caller is refused, not
// queued.
type inflight struct {
	busy atomic.Bool
}

func (g *inflight) acquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *inflight) release() {
	g.busy.Store(false)
}

func (g *inflight) active() bool {
	return g.busy.Load()
}
