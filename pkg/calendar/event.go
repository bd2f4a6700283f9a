package calendar

import (
	"fmt"
	"time"
)

// TimeLayout renders one timestamp the way the firmware parses it.
const TimeLayout = "06;01;02;15;04;05"

// Event is one scheduled interval with times normalized to UTC.
type Event struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Export renders the event as an AEVT command body:
// "yy;MM;dd;HH;mm;ss;yy;MM;dd;HH;mm;ss", start then end.
func (e Event) Export() string {
	return e.Start.UTC().Format(TimeLayout) + ";" + e.End.UTC().Format(TimeLayout)
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("%s: %s - %s", e.Name,
		e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339))
}

// Overlaps returns the events involved in an overlap with their
// successor. It assumes events is ordered monotonically by start time.
func Overlaps(events []Event) []Event {
	var overlapping []Event
	for i := 0; i+1 < len(events); i++ {
		if events[i].End.After(events[i+1].Start) {
			overlapping = append(overlapping, events[i], events[i+1])
		}
	}
	return overlapping
}

// DemoSchedule generates the built-in demo: short events every 8
// seconds starting 10 seconds from now, each 4 seconds long. Used when
// no calendar file is supplied.
func DemoSchedule(now time.Time) []Event {
	var events []Event
	for i := 10; i < 60; i += 8 {
		start := now.Add(time.Duration(i) * time.Second)
		events = append(events, Event{
			Name:  fmt.Sprintf("demo +%ds", i),
			Start: start,
			End:   start.Add(4 * time.Second),
		})
	}
	return events
}
