package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
)

// FreeCellLabel is printed in exported documents for empty cells.
const FreeCellLabel = "Free"

// BuildTimetableResponse converts a placement result into the API grid view.
func BuildTimetableResponse(roster timetable.Roster, geometry timetable.SlotGeometry, result *timetable.PlacementResult) dto.TimetableResponse {
	resp := dto.TimetableResponse{
		Slots:    geometry.Labels(),
		Days:     make([]dto.TimetableDay, len(result.Grid.Days)),
		Stats:    timetable.ComputeStats(result),
		Unplaced: make([]timetable.Session, len(result.Unplaced)),
	}
	copy(resp.Unplaced, result.Unplaced)

	for d, day := range result.Grid.Days {
		cells := make([]*dto.TimetableCell, result.Grid.Slots())
		for slot := range cells {
			placed := result.Grid.Cell(d, slot)
			if placed == nil {
				continue
			}
			cell := &dto.TimetableCell{
				SlotID:       placed.SlotID,
				Time:         geometry.FormatSlot(slot),
				Teacher:      placed.TeacherCode,
				Course:       placed.CourseCode,
				Type:         string(placed.Kind),
				Room:         placed.Room,
				Batches:      placed.BatchLabels,
				Placement:    placed.Placement,
				Continuation: placed.Continuation,
				ClassColor:   timetable.ClassColor(placed.Kind),
				TypeBadge:    timetable.TypeBadge(placed.Kind),
			}
			if entry, ok := roster.Lookup(placed.TeacherCode, placed.CourseCode); ok {
				cell.TeacherName = entry.TeacherName
				cell.CourseName = entry.CourseName
			}
			cells[slot] = cell
		}
		resp.Days[d] = dto.TimetableDay{Day: day, Cells: cells}
	}
	return resp
}

// BuildDataset lays the grid out as one row per day and one column per class slot.
func BuildDataset(title string, geometry timetable.SlotGeometry, grid *timetable.WeeklyGrid) export.Dataset {
	headers := append([]string{"Day"}, geometry.Labels()...)
	rows := make([][]export.Cell, len(grid.Days))
	for d, day := range grid.Days {
		row := make([]export.Cell, 0, len(headers))
		row = append(row, export.Cell{Text: day})
		for slot := 0; slot < grid.Slots(); slot++ {
			placed := grid.Cell(d, slot)
			if placed == nil {
				row = append(row, export.Cell{Text: FreeCellLabel})
				continue
			}
			row = append(row, export.Cell{Text: cellText(placed), Fill: timetable.FillColor(placed.Kind)})
		}
		rows[d] = row
	}
	return export.Dataset{Title: title, Headers: headers, Rows: rows}
}

func cellText(placed *timetable.PlacedSession) string {
	lines := []string{placed.CourseCode, placed.TeacherCode}
	if placed.Room != "" {
		lines = append(lines, placed.Room)
	}
	if len(placed.BatchLabels) > 0 {
		lines[len(lines)-1] += " (" + strings.Join(placed.BatchLabels, ", ") + ")"
	}
	return strings.Join(lines, "\n")
}

func (s *TimetableService) renderCalendar(gen *generation, title, weekOf string, weeks int) ([]byte, error) {
	anchor := s.now().In(s.location)
	if weekOf != "" {
		parsed, err := time.ParseInLocation("2006-01-02", weekOf, s.location)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "weekOf must be YYYY-MM-DD")
		}
		anchor = parsed
	}
	if weeks <= 0 {
		weeks = defaultCalendarWeeks
	}
	events, err := BuildEvents(gen.response.GenerationID, gen.plan.Roster, gen.geometry, gen.result.Grid, weekStart(anchor), weeks)
	if err != nil {
		return nil, err
	}
	body, err := s.calendar.Render(title, events, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return body, nil
}

// BuildEvents turns each placed session into a weekly recurring event. A lab
// pair becomes a single event spanning both slots.
func BuildEvents(generationID string, roster timetable.Roster, geometry timetable.SlotGeometry, grid *timetable.WeeklyGrid, monday time.Time, weeks int) ([]export.Event, error) {
	var events []export.Event
	for _, placed := range grid.Occupied() {
		if placed.Continuation {
			continue
		}
		last := placed.SlotIndex
		if placed.IsDoubleSlot {
			last++
		}
		if last >= len(geometry) {
			return nil, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("session %s runs past the last slot", placed.ID))
		}
		startClock, _, err := geometry[placed.SlotIndex].Clock()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot time")
		}
		_, endClock, err := geometry[last].Clock()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot time")
		}

		date := monday.AddDate(0, 0, dayOffset(placed.Day, placed.DayIndex))
		event := export.Event{
			UID:      fmt.Sprintf("%s-%s@timetable-api", generationID, placed.SlotID),
			Summary:  fmt.Sprintf("%s (%s)", placed.CourseCode, placed.TeacherCode),
			Location: placed.Room,
			Start:    atClock(date, startClock),
			End:      atClock(date, endClock),
			Weeks:    weeks,
		}
		var details []string
		if entry, ok := roster.Lookup(placed.TeacherCode, placed.CourseCode); ok {
			details = append(details, fmt.Sprintf("%s - %s", entry.CourseName, entry.TeacherName))
		}
		if len(placed.BatchLabels) > 0 {
			details = append(details, "Batches: "+strings.Join(placed.BatchLabels, ", "))
		}
		event.Description = strings.Join(details, "\n")
		events = append(events, event)
	}
	return events, nil
}

// atClock returns the wall-clock time clock after midnight on date's day.
func atClock(date time.Time, clock time.Duration) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, int(clock/time.Minute), 0, 0, date.Location())
}

// weekStart returns midnight of the Monday on or before t.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// dayOffset maps a weekday label to days after Monday, falling back to the grid index.
func dayOffset(label string, index int) int {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(label, wd.String()) {
			return (int(wd) + 6) % 7
		}
	}
	return index
}
