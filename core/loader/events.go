// ABOUTME: Navigation events reported by the browser surface
// ABOUTME: Constructors cover the common main-frame commit, finish and fail cases

package loader

import "manabi-reader/core/domain"

// EventKind is a browser navigation lifecycle notification.
type EventKind int

const (
	EventCommitted EventKind = iota
	EventFinished
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventCommitted:
		return "committed"
	case EventFinished:
		return "finished"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// NavigationEvent is delivered by the browser surface through Controller.Handle.
type NavigationEvent struct {
	Kind EventKind
	URL  string
	// Frame is the frame that navigated; the zero value means the main frame.
	Frame domain.FrameRef
}

// Committed builds a main-frame commit event.
func Committed(url string) NavigationEvent {
	return NavigationEvent{Kind: EventCommitted, URL: url, Frame: domain.MainFrame}
}

// Finished builds a main-frame finished event.
func Finished(url string) NavigationEvent {
	return NavigationEvent{Kind: EventFinished, URL: url, Frame: domain.MainFrame}
}

// Failed builds a main-frame failure event.
func Failed(url string) NavigationEvent {
	return NavigationEvent{Kind: EventFailed, URL: url, Frame: domain.MainFrame}
}

func isSubFrame(f domain.FrameRef) bool {
	return !f.IsMain && f.ID != ""
}
