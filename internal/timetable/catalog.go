package timetable

import (
	"fmt"
	"strings"
)

// Kind classifies a recurring session.
type Kind string

const (
	KindTheory  Kind = "TH"
	KindLab     Kind = "LAB"
	KindLibrary Kind = "LIBRARY"
	KindProject Kind = "PROJECT"
)

// Kinds lists every session kind in legend order.
var Kinds = []Kind{KindTheory, KindLab, KindLibrary, KindProject}

const (
	theoryInstances  = 3
	labInstances     = 2
	libraryInstances = 2
	projectInstances = 2

	ContinuationSuffix = " (Cont.)"
)

// DefaultBatchLabels are attached to every lab session.
var DefaultBatchLabels = []string{"D1", "D2", "D3", "D4"}

// Session is a template waiting to be placed. It is never mutated once built.
type Session struct {
	ID           string   `json:"id"`
	TeacherCode  string   `json:"teacher"`
	CourseCode   string   `json:"course"`
	Kind         Kind     `json:"type"`
	Room         string   `json:"room"`
	BatchLabels  []string `json:"batches,omitempty"`
	IsDoubleSlot bool     `json:"isDoubleSlot,omitempty"`
}

// RosterEntry maps a teacher to the course they run.
type RosterEntry struct {
	TeacherCode string `json:"teacherCode" yaml:"teacher_code" db:"teacher_code" validate:"required"`
	TeacherName string `json:"teacherName" yaml:"teacher_name" db:"teacher_name"`
	CourseCode  string `json:"courseCode" yaml:"course_code" db:"course_code" validate:"required"`
	CourseName  string `json:"courseName" yaml:"course_name" db:"course_name"`
	Kind        Kind   `json:"kind" yaml:"kind" db:"kind" validate:"required,oneof=TH LAB"`
}

// Rooms holds the room pools sessions cycle through.
type Rooms struct {
	Theory []string `json:"theory" yaml:"theory"`
	Lab    []string `json:"lab" yaml:"lab"`
}

// Roster is the static input to the catalog builder.
type Roster struct {
	Entries []RosterEntry `json:"entries" yaml:"entries" validate:"dive"`
	Rooms   Rooms         `json:"rooms" yaml:"rooms"`
}

// Lookup resolves full names for a placed teacher/course pair. Continuation
// labels are matched against their base course.
func (r Roster) Lookup(teacherCode, courseCode string) (RosterEntry, bool) {
	courseCode = strings.TrimSuffix(courseCode, ContinuationSuffix)
	for _, entry := range r.Entries {
		if entry.TeacherCode == teacherCode && entry.CourseCode == courseCode {
			return entry, true
		}
	}
	return RosterEntry{}, false
}

// CatalogOptions tunes pool expansion.
type CatalogOptions struct {
	SkipLibrary bool
	SkipProject bool
}

// BuildSessionPool expands the roster into concrete session instances.
func BuildSessionPool(roster Roster, opts CatalogOptions) []Session {
	pool := make([]Session, 0, len(roster.Entries)*theoryInstances+libraryInstances+projectInstances)

	theoryIndex, labIndex := 0, 0
	for _, entry := range roster.Entries {
		switch entry.Kind {
		case KindTheory:
			room := pickRoom(roster.Rooms.Theory, theoryIndex)
			for i := 0; i < theoryInstances; i++ {
				pool = append(pool, Session{
					ID:          fmt.Sprintf("theory-%s-%d", entry.TeacherCode, i),
					TeacherCode: entry.TeacherCode,
					CourseCode:  entry.CourseCode,
					Kind:        KindTheory,
					Room:        room,
				})
			}
			theoryIndex++
		case KindLab:
			room := pickRoom(roster.Rooms.Lab, labIndex)
			for i := 0; i < labInstances; i++ {
				batches := make([]string, len(DefaultBatchLabels))
				copy(batches, DefaultBatchLabels)
				pool = append(pool, Session{
					ID:           fmt.Sprintf("lab-%s-%d", entry.TeacherCode, i),
					TeacherCode:  entry.TeacherCode,
					CourseCode:   entry.CourseCode,
					Kind:         KindLab,
					Room:         room,
					BatchLabels:  batches,
					IsDoubleSlot: true,
				})
			}
			labIndex++
		}
	}

	if !opts.SkipLibrary {
		for i := 0; i < libraryInstances; i++ {
			pool = append(pool, Session{
				ID:          fmt.Sprintf("library-%d", i),
				TeacherCode: "LIB",
				CourseCode:  "LIBRARY",
				Kind:        KindLibrary,
				Room:        "Library",
			})
		}
	}
	if !opts.SkipProject {
		for i := 0; i < projectInstances; i++ {
			pool = append(pool, Session{
				ID:          fmt.Sprintf("project-%d", i),
				TeacherCode: "PROJ",
				CourseCode:  "PROJECT",
				Kind:        KindProject,
				Room:        "Project Room",
			})
		}
	}
	return pool
}

// HasDoubleSlot reports whether any session in the pool spans two slots.
func HasDoubleSlot(pool []Session) bool {
	for _, session := range pool {
		if session.IsDoubleSlot {
			return true
		}
	}
	return false
}

func pickRoom(pool []string, index int) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[index%len(pool)]
}
