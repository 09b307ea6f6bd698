package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/timetable"
)

// Room kinds stored in rooms.kind.
const (
	RoomKindTheory = "theory"
	RoomKindLab    = "lab"
)

// RosterRepository reads and replaces the department roster.
//
// Tables:
//
//	roster_entries(position int, teacher_code text, teacher_name text,
//	               course_code text, course_name text, kind text)
//	rooms(position int, name text, kind text)
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

type roomRow struct {
	Name string `db:"name"`
	Kind string `db:"kind"`
}

// ListEntries returns roster entries in their stored order.
func (r *RosterRepository) ListEntries(ctx context.Context) ([]timetable.RosterEntry, error) {
	const query = `SELECT teacher_code, teacher_name, course_code, course_name, kind FROM roster_entries ORDER BY position ASC`
	var entries []timetable.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}
	return entries, nil
}

// ListRooms returns the theory and lab room pools in their stored order.
func (r *RosterRepository) ListRooms(ctx context.Context) (timetable.Rooms, error) {
	const query = `SELECT name, kind FROM rooms ORDER BY kind ASC, position ASC`
	var rows []roomRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return timetable.Rooms{}, fmt.Errorf("list rooms: %w", err)
	}
	var rooms timetable.Rooms
	for _, row := range rows {
		switch row.Kind {
		case RoomKindTheory:
			rooms.Theory = append(rooms.Theory, row.Name)
		case RoomKindLab:
			rooms.Lab = append(rooms.Lab, row.Name)
		}
	}
	return rooms, nil
}

// Load reads the complete roster.
func (r *RosterRepository) Load(ctx context.Context) (*timetable.Roster, error) {
	entries, err := r.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := r.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	return &timetable.Roster{Entries: entries, Rooms: rooms}, nil
}

// Replace swaps the stored roster for roster inside one transaction.
func (r *RosterRepository) Replace(ctx context.Context, roster timetable.Roster) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster replace: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM roster_entries`); err != nil {
		return fmt.Errorf("clear roster entries: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM rooms`); err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}

	const insertEntry = `INSERT INTO roster_entries (position, teacher_code, teacher_name, course_code, course_name, kind) VALUES ($1, $2, $3, $4, $5, $6)`
	for i, entry := range roster.Entries {
		if _, err = tx.ExecContext(ctx, insertEntry, i, entry.TeacherCode, entry.TeacherName, entry.CourseCode, entry.CourseName, string(entry.Kind)); err != nil {
			return fmt.Errorf("insert roster entry %s/%s: %w", entry.TeacherCode, entry.CourseCode, err)
		}
	}

	const insertRoom = `INSERT INTO rooms (position, name, kind) VALUES ($1, $2, $3)`
	pools := []struct {
		kind  string
		names []string
	}{
		{RoomKindTheory, roster.Rooms.Theory},
		{RoomKindLab, roster.Rooms.Lab},
	}
	for _, pool := range pools {
		for i, name := range pool.names {
			if _, err = tx.ExecContext(ctx, insertRoom, i, name, pool.kind); err != nil {
				return fmt.Errorf("insert room %s: %w", name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit roster replace: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *RosterRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
