package calendar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:1@test
DTSTAMP:20240101T000000Z
DTSTART:20240101T000010Z
DTEND:20240101T000014Z
SUMMARY:beacon window
END:VEVENT
BEGIN:VEVENT
UID:2@test
DTSTAMP:20240101T000000Z
DTSTART:20240102T080000Z
DTEND:20240102T083000Z
SUMMARY:standby
END:VEVENT
END:VCALENDAR
`

func TestExport(t *testing.T) {
	event := Event{
		Start: time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 0, 0, 14, 0, time.UTC),
	}
	require.Equal(t, "24;01;01;00;00;10;24;01;01;00;00;14", event.Export())
}

func TestExportNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	event := Event{
		Start: time.Date(2024, 6, 15, 14, 30, 0, 0, loc),
		End:   time.Date(2024, 6, 15, 15, 0, 0, 0, loc),
	}
	require.Equal(t, "24;06;15;12;30;00;24;06;15;13;00;00", event.Export())
}

func TestParse(t *testing.T) {
	events, err := Parse(strings.NewReader(sampleICS))
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.Equal(t, "beacon window", events[0].Name)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC), events[0].Start)
	require.Equal(t, "24;01;01;00;00;10;24;01;01;00;00;14", events[0].Export())
	require.Equal(t, "standby", events[1].Name)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cal.ics")
	require.NoError(t, os.WriteFile(path, []byte(sampleICS), 0o644))

	events, err := Load(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestLoadRejectsNonICS(t *testing.T) {
	_, err := Load("schedule.txt")
	require.Error(t, err)
}

func TestLoadRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.ics")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Load(path)
	require.ErrorContains(t, err, "empty")
}

func TestOverlaps(t *testing.T) {
	at := func(min int) time.Time {
		return time.Date(2024, 1, 1, 0, min, 0, 0, time.UTC)
	}
	disjoint := []Event{
		{Name: "a", Start: at(0), End: at(10)},
		{Name: "b", Start: at(10), End: at(20)},
	}
	require.Empty(t, Overlaps(disjoint))

	crossing := []Event{
		{Name: "a", Start: at(0), End: at(15)},
		{Name: "b", Start: at(10), End: at(20)},
		{Name: "c", Start: at(30), End: at(40)},
	}
	got := Overlaps(crossing)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Name)
	require.Equal(t, "b", got[1].Name)
}

func TestDemoSchedule(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := DemoSchedule(now)
	require.NotEmpty(t, events)
	require.Empty(t, Overlaps(events))

	require.Equal(t, now.Add(10*time.Second), events[0].Start)
	require.Equal(t, now.Add(14*time.Second), events[0].End)
	require.Equal(t, "24;01;01;00;00;10;24;01;01;00;00;14", events[0].Export())
	for i := 1; i < len(events); i++ {
		require.Equal(t, 8*time.Second, events[i].Start.Sub(events[i-1].Start))
	}
}
