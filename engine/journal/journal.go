// Package journal records a playthrough as an ordered, append-only
// sequence of events, one per executed command plus the starting
// location. The sequence is traversable in both directions and queryable
// as a location-id log for walkthrough validation.
package journal

// Event records an arrival at a location. NextCommand is the command
// that led to the *next* event; it stays empty on the most recent event
// until a successor is appended.
type Event struct {
	LocationID  int
	Description string
	NextCommand string
}

// Log is the event history for one session. It grows monotonically;
// RemoveLast exists for correction but is not exercised in normal play.
type Log struct {
	events []Event
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// Append adds an event for the given location. command is the command
// that caused the transition into this event; it is recorded on the
// previous tail, preserving "command that led out of here" semantics.
// For the first event command is ignored.
func (l *Log) Append(locationID int, description, command string) {
	if len(l.events) > 0 {
		l.events[len(l.events)-1].NextCommand = command
	}
	l.events = append(l.events, Event{LocationID: locationID, Description: description})
}

// RemoveLast drops the most recent event and clears the new tail's
// outgoing command. Does nothing on an empty log.
func (l *Log) RemoveLast() {
	if len(l.events) == 0 {
		return
	}
	l.events = l.events[:len(l.events)-1]
	if len(l.events) > 0 {
		l.events[len(l.events)-1].NextCommand = ""
	}
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	return len(l.events)
}

// IsEmpty reports whether no events have been recorded.
func (l *Log) IsEmpty() bool {
	return len(l.events) == 0
}

// First returns the earliest event, if any.
func (l *Log) First() (Event, bool) {
	if len(l.events) == 0 {
		return Event{}, false
	}
	return l.events[0], true
}

// Last returns the most recent event, if any.
func (l *Log) Last() (Event, bool) {
	if len(l.events) == 0 {
		return Event{}, false
	}
	return l.events[len(l.events)-1], true
}

// At returns the event at position i (0-based). Valid positions are
// 0..Len()-1; together with Len this gives bidirectional traversal.
func (l *Log) At(i int) Event {
	return l.events[i]
}

// Events returns a copy of the sequence in visiting order.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// IDLog returns the ordered list of visited location ids, one per event.
func (l *Log) IDLog() []int {
	ids := make([]int, len(l.events))
	for i, ev := range l.events {
		ids[i] = ev.LocationID
	}
	return ids
}
