package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Computer Engineering - Division A",
		Headers: []string{"Day", "09:00 - 10:00", "10:00 - 11:00"},
		Rows: [][]Cell{
			{{Text: "Monday"}, {Text: "DSA\nPSK\nA-101", Fill: "#DBEAFE"}, {Text: "Free"}},
			{{Text: "Tuesday"}, {Text: "DSAL\nPSK", Fill: "#DCFCE7"}, {Text: "DSAL (Cont.)\nPSK", Fill: "#DCFCE7"}},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Day", "09:00 - 10:00", "10:00 - 11:00"}, records[0])
	assert.Equal(t, "DSA\nPSK\nA-101", records[1][1])
	assert.Equal(t, "Free", records[1][2])
	assert.Equal(t, "DSAL (Cont.)\nPSK", records[2][2])
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	data := Dataset{Headers: []string{"Day", "Slot 1"}, Rows: [][]Cell{{{Text: "Friday"}}}}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Day,Slot 1\nFriday,\n", string(out))
}

func TestExportersRejectInvalidDatasets(t *testing.T) {
	empty := Dataset{}
	wide := Dataset{Headers: []string{"Day"}, Rows: [][]Cell{{{Text: "a"}, {Text: "b"}}}}

	for _, data := range []Dataset{empty, wide} {
		_, err := NewCSVExporter().Render(data)
		assert.Error(t, err)
		_, err = NewPDFExporter().Render(data)
		assert.Error(t, err)
		_, err = NewXLSXExporter().Render(data)
		assert.Error(t, err)
	}
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Timetable"}, f.GetSheetList())
	title, err := f.GetCellValue("Timetable", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Computer Engineering - Division A", title)

	header, err := f.GetCellValue("Timetable", "B2")
	require.NoError(t, err)
	assert.Equal(t, "09:00 - 10:00", header)

	cell, err := f.GetCellValue("Timetable", "C4")
	require.NoError(t, err)
	assert.Equal(t, "DSAL (Cont.)\nPSK", cell)
}

func TestICSExporterRender(t *testing.T) {
	start := time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{UID: "gen-1-monday-0", Summary: "DSA (PSK)", Location: "A-101", Start: start, End: start.Add(time.Hour), Weeks: 12},
		{UID: "gen-1-tuesday-2", Summary: "DSAL (PSK)", Description: "Batches D1, D2", Start: start.Add(26 * time.Hour), End: start.Add(28 * time.Hour)},
	}
	out, err := NewICSExporter("").Render("Division A", events, start)
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "SUMMARY:DSA (PSK)")
	assert.Contains(t, body, "LOCATION:A-101")
	assert.Contains(t, body, "FREQ=WEEKLY;COUNT=12")
	assert.Contains(t, body, "DTSTART:20240603T090000Z")
	assert.Equal(t, 1, strings.Count(body, "RRULE"))
}

func TestICSExporterKeepsLocalTimeAcrossDaylightSaving(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	start := time.Date(2024, time.September, 2, 8, 0, 0, 0, berlin)
	events := []Event{{UID: "gen-1-monday-0", Summary: "DSA (PSK)", Start: start, End: start.Add(time.Hour), Weeks: 16}}

	out, err := NewICSExporter("").Render("Division A", events, start)
	require.NoError(t, err)
	body := string(out)
	assert.Contains(t, body, "DTSTART;TZID=Europe/Berlin:20240902T080000")
	assert.Contains(t, body, "DTEND;TZID=Europe/Berlin:20240902T090000")
	assert.NotContains(t, body, "DTSTART:20240902T060000Z")

	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	dtstart := cal.Events()[0].GetProperty(ics.ComponentPropertyDtStart)
	require.NotNil(t, dtstart)
	require.Equal(t, []string{"Europe/Berlin"}, dtstart.ICalParameters[string(ics.ParameterTzid)])

	require.Len(t, cal.Timezones(), 1)
	zone := cal.Timezones()[0]
	require.Equal(t, "Europe/Berlin", zone.GetProperty(ics.ComponentPropertyTzid).Value)

	first, err := time.Parse(icsLocalLayout, dtstart.Value)
	require.NoError(t, err)
	for _, week := range []int{1, 10, 16} {
		wall := first.AddDate(0, 0, 7*(week-1))
		offset := observedOffset(t, zone, wall)
		got := wall.Add(-time.Duration(offset) * time.Second)
		want := time.Date(2024, time.September, 2+7*(week-1), 8, 0, 0, 0, berlin).UTC()
		assert.Truef(t, want.Equal(got), "week %d: got %s want %s", week, got, want)
	}
}

// observedOffset resolves a wall-clock time (in a UTC-located value) against
// the observances of a VTIMEZONE and returns the offset in seconds.
func observedOffset(t *testing.T, zone *ics.VTimezone, wall time.Time) int {
	t.Helper()
	var onset time.Time
	offset, found := 0, false
	for _, component := range zone.SubComponents() {
		var base *ics.ComponentBase
		switch obs := component.(type) {
		case *ics.Standard:
			base = &obs.ComponentBase
		case *ics.Daylight:
			base = &obs.ComponentBase
		default:
			continue
		}
		at, err := time.Parse(icsLocalLayout, base.GetProperty(ics.ComponentPropertyDtStart).Value)
		require.NoError(t, err)
		if at.After(wall) || (found && at.Before(onset)) {
			continue
		}
		to := base.GetProperty(ics.ComponentProperty(ics.PropertyTzoffsetto)).Value
		parsed, err := time.Parse("-0700", to)
		require.NoError(t, err)
		_, offset = parsed.Zone()
		onset, found = at, true
	}
	require.True(t, found, "no observance covers %s", wall)
	return offset
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "+0200", formatOffset(7200))
	assert.Equal(t, "-0330", formatOffset(-12600))
	assert.Equal(t, "+0000", formatOffset(0))
}

func TestICSExporterRejectsBadEvents(t *testing.T) {
	start := time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)
	_, err := NewICSExporter("").Render("x", []Event{{Summary: "no uid", Start: start, End: start.Add(time.Hour)}}, start)
	assert.Error(t, err)

	_, err = NewICSExporter("").Render("x", []Event{{UID: "a", Start: start, End: start}}, start)
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	r, g, b, ok := parseHex("#DCFCE7")
	require.True(t, ok)
	assert.Equal(t, []int{0xDC, 0xFC, 0xE7}, []int{r, g, b})

	_, _, _, ok = parseHex("blue")
	assert.False(t, ok)
}
