// Package telemetry provides frame timing, rebuild tracking and CSV output.
package telemetry

import "time"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventRebuild  EventType = iota // Target set rebuilt and uploaded
	EventNotReady                  // Geometry change seen but inputs not measurable yet
	EventResize                    // Backing surface reallocated
)

// String returns the CSV name of the event type.
func (t EventType) String() string {
	switch t {
	case EventRebuild:
		return "rebuild"
	case EventNotReady:
		return "not_ready"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is one geometry lifecycle event, written as a row of rebuilds.csv.
type Event struct {
	Type      EventType `csv:"-"`
	Kind      string    `csv:"event"`
	Frame     int64     `csv:"frame"`
	Version   uint64    `csv:"version"`
	Particles int       `csv:"particles"`
	Groups    int       `csv:"groups"`
	BuildUS   int64     `csv:"build_us"`
	Width     float32   `csv:"width"`
	Height    float32   `csv:"height"`
}

// NewRebuildEvent creates a rebuild event.
func NewRebuildEvent(frame int64, version uint64, particles, groups int, took time.Duration) Event {
	return Event{
		Type:      EventRebuild,
		Kind:      EventRebuild.String(),
		Frame:     frame,
		Version:   version,
		Particles: particles,
		Groups:    groups,
		BuildUS:   took.Microseconds(),
	}
}

// NewNotReadyEvent creates an event for a rebuild that was skipped.
func NewNotReadyEvent(frame int64, version uint64) Event {
	return Event{
		Type:    EventNotReady,
		Kind:    EventNotReady.String(),
		Frame:   frame,
		Version: version,
	}
}

// NewResizeEvent creates a resize event with the new layout size.
func NewResizeEvent(frame int64, width, height float32) Event {
	return Event{
		Type:   EventResize,
		Kind:   EventResize.String(),
		Frame:  frame,
		Width:  width,
		Height: height,
	}
}
