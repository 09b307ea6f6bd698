package dto

import (
	"time"

	"github.com/noah-isme/timetable-api/internal/timetable"
)

// GenerateTimetableRequest selects the branch/division to generate for.
type GenerateTimetableRequest struct {
	Branch      string `json:"branch" form:"branch" validate:"required"`
	Division    string `json:"division" form:"division" validate:"required"`
	Seed        *int64 `json:"seed,omitempty" form:"seed"`
	SkipLibrary bool   `json:"skipLibrary,omitempty" form:"skipLibrary"`
	SkipProject bool   `json:"skipProject,omitempty" form:"skipProject"`
}

// BatchGenerateRequest generates several divisions of one branch at once.
type BatchGenerateRequest struct {
	Branch      string   `json:"branch" validate:"required"`
	Divisions   []string `json:"divisions" validate:"required,min=1,dive,required"`
	Seed        *int64   `json:"seed,omitempty"`
	SkipLibrary bool     `json:"skipLibrary,omitempty"`
	SkipProject bool     `json:"skipProject,omitempty"`
}

// ExportTimetableRequest generates a timetable and renders it as a document.
type ExportTimetableRequest struct {
	GenerateTimetableRequest
	Format string `json:"format" form:"format" validate:"required,oneof=csv pdf xlsx ics"`
	// WeekOf anchors calendar exports; any date inside the first teaching week.
	WeekOf string `json:"weekOf,omitempty" form:"weekOf" validate:"omitempty,datetime=2006-01-02"`
	Weeks  int    `json:"weeks,omitempty" form:"weeks" validate:"omitempty,min=1,max=52"`
}

// TimetableCell is one occupied grid cell.
type TimetableCell struct {
	SlotID       string   `json:"slotId"`
	Time         string   `json:"time"`
	Teacher      string   `json:"teacher"`
	TeacherName  string   `json:"teacherName,omitempty"`
	Course       string   `json:"course"`
	CourseName   string   `json:"courseName,omitempty"`
	Type         string   `json:"type"`
	Room         string   `json:"room"`
	Batches      []string `json:"batches,omitempty"`
	Placement    int      `json:"placement"`
	Continuation bool     `json:"continuation,omitempty"`
	ClassColor   string   `json:"classColor"`
	TypeBadge    string   `json:"typeBadge"`
}

// TimetableDay lists a day's cells in slot order; a null cell is free.
type TimetableDay struct {
	Day   string           `json:"day"`
	Cells []*TimetableCell `json:"cells"`
}

// TimetableResponse is a generated weekly timetable.
type TimetableResponse struct {
	GenerationID  string              `json:"generationId"`
	Branch        string              `json:"branch"`
	BranchLabel   string              `json:"branchLabel"`
	Division      string              `json:"division"`
	DivisionLabel string              `json:"divisionLabel"`
	Seed          int64               `json:"seed"`
	RosterSource  string              `json:"rosterSource"`
	GeneratedAt   time.Time           `json:"generatedAt"`
	Slots         []string            `json:"slots"`
	Days          []TimetableDay      `json:"days"`
	Stats         timetable.Stats     `json:"stats"`
	Unplaced      []timetable.Session `json:"unplaced"`
	RosterCached  bool                `json:"-"`
}

// BatchGenerateResponse holds one timetable per requested division.
type BatchGenerateResponse struct {
	Branch     string              `json:"branch"`
	Timetables []TimetableResponse `json:"timetables"`
}

// ExportFile is a rendered timetable document.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Seed        int64
}

// LegendEntry describes one session kind for display.
type LegendEntry struct {
	Type       string `json:"type"`
	Label      string `json:"label"`
	ClassColor string `json:"classColor"`
	TypeBadge  string `json:"typeBadge"`
}

// SlotsResponse describes the teaching week.
type SlotsResponse struct {
	Days       []string               `json:"days"`
	Layout     []timetable.LayoutSlot `json:"layout"`
	ClassSlots []string               `json:"classSlots"`
}

// RosterResponse exposes the active roster and selectable options.
type RosterResponse struct {
	Source    string             `json:"source"`
	Roster    timetable.Roster   `json:"roster"`
	Branches  []timetable.Option `json:"branches"`
	Divisions []timetable.Option `json:"divisions"`
}

// MetricsSnapshot summarises process metrics for JSON consumers.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	Generations              uint64    `json:"generations"`
	SessionsUnplaced         uint64    `json:"sessionsUnplaced"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
