package timetable

import (
	"fmt"
	"time"
)

// SlotType distinguishes teachable slots from breaks in a day layout.
type SlotType string

const (
	SlotTypeClass SlotType = "class"
	SlotTypeBreak SlotType = "break"
	SlotTypeLunch SlotType = "lunch"
)

const clockLayout = "15:04"

// Slot is one placeable class period.
type Slot struct {
	StartTime string `json:"startTime" yaml:"start_time"`
	EndTime   string `json:"endTime" yaml:"end_time"`
}

// LayoutSlot is an entry of the full day layout, breaks included.
type LayoutSlot struct {
	Slot `yaml:",inline"`
	Type SlotType `json:"type" yaml:"type"`
}

// SlotGeometry is the ordered list of class slots for a day.
type SlotGeometry []Slot

// ClassSlots drops break and lunch entries from a day layout.
func ClassSlots(layout []LayoutSlot) SlotGeometry {
	geometry := make(SlotGeometry, 0, len(layout))
	for _, entry := range layout {
		if entry.Type == SlotTypeClass {
			geometry = append(geometry, entry.Slot)
		}
	}
	return geometry
}

// FormatSlot renders "<start> - <end>" for a slot index, or "" when out of range.
func (g SlotGeometry) FormatSlot(index int) string {
	if index < 0 || index >= len(g) {
		return ""
	}
	return fmt.Sprintf("%s - %s", g[index].StartTime, g[index].EndTime)
}

// Labels formats every slot of the geometry.
func (g SlotGeometry) Labels() []string {
	labels := make([]string, len(g))
	for i := range g {
		labels[i] = g.FormatSlot(i)
	}
	return labels
}

// Clock parses a slot's start and end as offsets from midnight.
func (s Slot) Clock() (start, end time.Duration, err error) {
	startAt, err := time.Parse(clockLayout, s.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("parse slot start %q: %w", s.StartTime, err)
	}
	endAt, err := time.Parse(clockLayout, s.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("parse slot end %q: %w", s.EndTime, err)
	}
	midnight := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	return startAt.Sub(midnight), endAt.Sub(midnight), nil
}
