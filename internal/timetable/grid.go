package timetable

import (
	"fmt"
	"strings"
)

// PlacedSession is a session bound to a concrete day and slot.
type PlacedSession struct {
	Session
	SlotID       string `json:"slotId"`
	Day          string `json:"day"`
	DayIndex     int    `json:"dayIndex"`
	SlotIndex    int    `json:"slotIndex"`
	Placement    int    `json:"placement"`
	Continuation bool   `json:"continuation,omitempty"`
}

// WeeklyGrid maps each day to its ordered slot cells. A nil cell is free.
type WeeklyGrid struct {
	Days  []string           `json:"days"`
	Cells [][]*PlacedSession `json:"cells"`

	// per-day occupied cell count by teacher code
	teacherLoad []map[string]int
}

// NewWeeklyGrid returns an empty grid for the given days and slot count.
func NewWeeklyGrid(days []string, slots int) *WeeklyGrid {
	grid := &WeeklyGrid{
		Days:        append([]string(nil), days...),
		Cells:       make([][]*PlacedSession, len(days)),
		teacherLoad: make([]map[string]int, len(days)),
	}
	for d := range days {
		grid.Cells[d] = make([]*PlacedSession, slots)
		grid.teacherLoad[d] = make(map[string]int)
	}
	return grid
}

// Slots returns the number of cells per day.
func (g *WeeklyGrid) Slots() int {
	if len(g.Cells) == 0 {
		return 0
	}
	return len(g.Cells[0])
}

// Cell returns the session at (day, slot), or nil when free or out of range.
func (g *WeeklyGrid) Cell(day, slot int) *PlacedSession {
	if day < 0 || day >= len(g.Cells) || slot < 0 || slot >= len(g.Cells[day]) {
		return nil
	}
	return g.Cells[day][slot]
}

// IsFree reports whether (day, slot) exists and holds nothing.
func (g *WeeklyGrid) IsFree(day, slot int) bool {
	if day < 0 || day >= len(g.Cells) || slot < 0 || slot >= len(g.Cells[day]) {
		return false
	}
	return g.Cells[day][slot] == nil
}

// TeacherLoad counts the cells a teacher occupies on a day.
func (g *WeeklyGrid) TeacherLoad(day int, teacherCode string) int {
	if day < 0 || day >= len(g.teacherLoad) {
		return 0
	}
	if g.teacherLoad[day] == nil {
		// grids decoded from JSON carry no index
		count := 0
		for _, cell := range g.Cells[day] {
			if cell != nil && cell.TeacherCode == teacherCode {
				count++
			}
		}
		return count
	}
	return g.teacherLoad[day][teacherCode]
}

// Occupied returns every placed cell in day/slot order.
func (g *WeeklyGrid) Occupied() []*PlacedSession {
	var cells []*PlacedSession
	for _, day := range g.Cells {
		for _, cell := range day {
			if cell != nil {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

func (g *WeeklyGrid) put(session Session, placement, day, slot int, continuation bool) {
	placed := &PlacedSession{
		Session:      session,
		SlotID:       fmt.Sprintf("%s-%d", strings.ToLower(g.Days[day]), slot),
		Day:          g.Days[day],
		DayIndex:     day,
		SlotIndex:    slot,
		Placement:    placement,
		Continuation: continuation,
	}
	if continuation {
		placed.CourseCode = session.CourseCode + ContinuationSuffix
	}
	g.Cells[day][slot] = placed
	g.teacherLoad[day][session.TeacherCode]++
}
