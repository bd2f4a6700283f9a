package calendar

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	ics "github.com/arran4/golang-ical"
)

// Load reads an ICS file and returns its events in file order. The
// path must name a non-empty `.ics` file.
func Load(path string) ([]Event, error) {
	if filepath.Ext(path) != ".ics" {
		return nil, fmt.Errorf("%s: not an ics file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: calendar file is empty", path)
	}
	return Parse(bytes.NewReader(data))
}

// Parse extracts events from ICS text.
func Parse(r io.Reader) ([]Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	var events []Event
	for _, ve := range cal.Events() {
		start, err := ve.GetStartAt()
		if err != nil {
			return nil, fmt.Errorf("event start: %w", err)
		}
		end, err := ve.GetEndAt()
		if err != nil {
			return nil, fmt.Errorf("event end: %w", err)
		}
		event := Event{Start: start.UTC(), End: end.UTC()}
		if prop := ve.GetProperty(ics.ComponentPropertySummary); prop != nil {
			event.Name = prop.Value
		}
		events = append(events, event)
	}
	return events, nil
}
