package platform

import (
	"github.com/spaghettifunk/planogram/engine/containers"
	"github.com/spaghettifunk/planogram/engine/core"
)

const eventQueueCapacity = 256

// eventQueue orders what one poll of the window system produced: every
// queued window event, then MainEventsCleared, then RedrawRequested if one
// was asked for.
type eventQueue struct {
	window  core.WindowID
	queue   *containers.RingQueue[core.Event]
	redraw  bool
	cleared bool
	dropped int
}

func newEventQueue(window core.WindowID, capacity int) *eventQueue {
	return &eventQueue{
		window: window,
		queue:  containers.NewRingQueue[core.Event](capacity),
		// Nothing was polled yet.
		cleared: true,
	}
}

func (q *eventQueue) push(ev core.Event) {
	if err := q.queue.Enqueue(ev); err != nil {
		q.dropped++
		core.LogWarn("Event queue full, dropping %s (%d dropped so far).", ev.Code(), q.dropped)
	}
}

func (q *eventQueue) requestRedraw() {
	q.redraw = true
}

// beginPoll marks the start of a new batch of window events.
func (q *eventQueue) beginPoll() {
	q.cleared = false
}

// next returns the next event of the current batch. It reports false once
// the batch is exhausted and the window system must be polled again.
func (q *eventQueue) next() (core.Event, bool) {
	if ev, err := q.queue.Dequeue(); err == nil {
		return ev, true
	}
	if !q.cleared {
		q.cleared = true
		return core.MainEventsCleared{}, true
	}
	if q.redraw {
		q.redraw = false
		return core.RedrawRequested{WindowID: q.window}, true
	}
	return nil, false
}
