package export

import (
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsLocalLayout = "20060102T150405"

// Event is one recurring calendar entry.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	// Start and End keep their time.Location; non-UTC events are written
	// with a TZID so weekly recurrences follow local wall-clock time.
	Start time.Time
	End   time.Time
	// Weeks limits the weekly recurrence; zero means a single occurrence.
	Weeks int
}

// ICSExporter renders events as an iCalendar (RFC 5545) document.
type ICSExporter struct {
	productID string
}

// NewICSExporter constructs an iCalendar exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//timetable-api//weekly timetable//EN"
	}
	return &ICSExporter{productID: productID}
}

// Render serialises the events into a published calendar named name.
func (e *ICSExporter) Render(name string, events []Event, stamp time.Time) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("ics event %q has no uid", ev.Summary)
		}
		if !ev.End.After(ev.Start) {
			return nil, fmt.Errorf("ics event %s ends before it starts", ev.UID)
		}
	}

	zones := zoneSpans(events)
	for _, zone := range zones {
		cal.AddVTimezone(buildTimezone(zone))
	}
	if len(zones) == 1 {
		cal.SetXWRTimezone(zones[0].id)
	}

	for _, ev := range events {
		event := cal.AddEvent(ev.UID)
		event.SetDtStampTime(stamp)
		if isUTC(ev.Start.Location()) {
			event.SetStartAt(ev.Start)
			event.SetEndAt(ev.End)
		} else {
			tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{ev.Start.Location().String()}}
			event.SetProperty(ics.ComponentPropertyDtStart, ev.Start.Format(icsLocalLayout), tzid)
			event.SetProperty(ics.ComponentPropertyDtEnd, ev.End.In(ev.Start.Location()).Format(icsLocalLayout), tzid)
		}
		event.SetSummary(ev.Summary)
		if ev.Location != "" {
			event.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
		if ev.Weeks > 1 {
			event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", ev.Weeks))
		}
	}
	return []byte(cal.Serialize()), nil
}

func isUTC(loc *time.Location) bool {
	return loc == nil || loc == time.UTC
}

// zoneSpan is the instant range a VTIMEZONE must describe.
type zoneSpan struct {
	id       string
	location *time.Location
	from, to time.Time
}

func zoneSpans(events []Event) []zoneSpan {
	byID := map[string]*zoneSpan{}
	for _, ev := range events {
		loc := ev.Start.Location()
		if isUTC(loc) {
			continue
		}
		last := ev.End
		if ev.Weeks > 1 {
			last = last.AddDate(0, 0, 7*(ev.Weeks-1))
		}
		span, ok := byID[loc.String()]
		if !ok {
			byID[loc.String()] = &zoneSpan{id: loc.String(), location: loc, from: ev.Start, to: last}
			continue
		}
		if ev.Start.Before(span.from) {
			span.from = ev.Start
		}
		if last.After(span.to) {
			span.to = last
		}
	}

	spans := make([]zoneSpan, 0, len(byID))
	for _, span := range byID {
		spans = append(spans, *span)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].id < spans[j].id })
	return spans
}

// buildTimezone describes the offsets in force from the first event until the
// last recurrence, one observance per offset change.
func buildTimezone(span zoneSpan) *ics.VTimezone {
	tz := ics.NewTimezone(span.id)

	start := span.from.In(span.location)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, span.location)
	_, offset := start.Zone()
	addObservance(tz, start, offset, offset)

	for _, at := range offsetChanges(span.location, start, span.to) {
		_, next := at.In(span.location).Zone()
		addObservance(tz, at, offset, next)
		offset = next
	}
	return tz
}

func addObservance(tz *ics.VTimezone, at time.Time, from, to int) {
	// observance onsets are written in the wall-clock time of the offset being left
	local := at.UTC().Add(time.Duration(from) * time.Second)
	name, _ := at.Zone()

	base := ics.ComponentBase{}
	base.AddProperty(ics.ComponentPropertyDtStart, local.Format(icsLocalLayout))
	base.AddProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), formatOffset(from))
	base.AddProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), formatOffset(to))
	if name != "" {
		base.AddProperty(ics.ComponentProperty(ics.PropertyTzname), name)
	}

	if at.IsDST() {
		tz.Components = append(tz.Components, &ics.Daylight{ComponentBase: base})
		return
	}
	tz.Components = append(tz.Components, &ics.Standard{ComponentBase: base})
}

// offsetChanges returns the instants in (from, to] where the UTC offset of loc changes.
func offsetChanges(loc *time.Location, from, to time.Time) []time.Time {
	var changes []time.Time
	prev := from.In(loc)
	_, prevOffset := prev.Zone()
	for cursor := prev.Add(time.Hour); !cursor.After(to.Add(time.Hour)); cursor = cursor.Add(time.Hour) {
		_, offset := cursor.In(loc).Zone()
		if offset == prevOffset {
			prev = cursor
			continue
		}
		lo, hi := prev, cursor
		for hi.Sub(lo) > time.Second {
			mid := lo.Add(hi.Sub(lo) / 2)
			if _, o := mid.In(loc).Zone(); o == prevOffset {
				lo = mid
			} else {
				hi = mid
			}
		}
		changes = append(changes, hi.Truncate(time.Second).In(loc))
		prev, prevOffset = cursor, offset
	}
	return changes
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, seconds%3600/60)
}
