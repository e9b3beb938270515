package node

import "slices"

// CallbackResult tells the dispatcher whether to keep a callback.
type CallbackResult int

const (
	// Continue keeps the callback for the next dispatch. It is the zero value.
	Continue CallbackResult = iota

	// Remove drops the callback after the current invocation.
	Remove
)

// UpdateFunc is called with the elapsed time in seconds: the frame delta for OnUpdate and the fixed step
// for OnFixedUpdate.
type UpdateFunc func(dt float32) CallbackResult

// AfterRenderFunc is called once per frame after the scene has rendered.
type AfterRenderFunc func() CallbackResult

type callback[F any] struct {
	fn      F
	removed bool
}

// callbackList is an ordered set of callbacks. gen changes whenever the list is cleared so a run in
// progress does not mark entries registered after the clear.
type callbackList[F any] struct {
	entries []callback[F]
	gen     uint64
}

func (l *callbackList[F]) add(fn F) {
	l.entries = append(l.entries, callback[F]{fn: fn})
}

func (l *callbackList[F]) clear() {
	l.entries = nil
	l.gen++
}

// run invokes the callbacks present when it starts. Callbacks added during the run wait for the next
// dispatch.
func (l *callbackList[F]) run(invoke func(F) CallbackResult) {
	count := len(l.entries)
	gen := l.gen
	removed := false
	for i := 0; i < count && gen == l.gen; i++ {
		if l.entries[i].removed {
			continue
		}
		if invoke(l.entries[i].fn) == Remove && gen == l.gen {
			l.entries[i].removed = true
			removed = true
		}
	}
	if removed && gen == l.gen {
		l.entries = slices.DeleteFunc(l.entries, func(c callback[F]) bool { return c.removed })
	}
}
