package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/timetable"
)

func newRosterMock(t *testing.T) (*RosterRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRosterRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestRosterRepositoryLoad(t *testing.T) {
	repo, mock, cleanup := newRosterMock(t)
	defer cleanup()

	entryRows := sqlmock.NewRows([]string{"teacher_code", "teacher_name", "course_code", "course_name", "kind"}).
		AddRow("PSK", "Prof. S. Kulkarni", "DSA", "Data Structures and Algorithms", "TH").
		AddRow("PSK", "Prof. S. Kulkarni", "DSAL", "Data Structures Laboratory", "LAB")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_code, teacher_name, course_code, course_name, kind FROM roster_entries ORDER BY position ASC")).
		WillReturnRows(entryRows)

	roomRows := sqlmock.NewRows([]string{"name", "kind"}).
		AddRow("Lab-1", "lab").
		AddRow("A-101", "theory").
		AddRow("A-102", "theory").
		AddRow("Basement", "storage")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT name, kind FROM rooms ORDER BY kind ASC, position ASC")).
		WillReturnRows(roomRows)

	roster, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, roster.Entries, 2)
	assert.Equal(t, timetable.KindLab, roster.Entries[1].Kind)
	assert.Equal(t, "Data Structures and Algorithms", roster.Entries[0].CourseName)
	assert.Equal(t, []string{"A-101", "A-102"}, roster.Rooms.Theory)
	assert.Equal(t, []string{"Lab-1"}, roster.Rooms.Lab)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryLoadPropagatesErrors(t *testing.T) {
	repo, mock, cleanup := newRosterMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT teacher_code").WillReturnError(errors.New("relation does not exist"))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list roster entries")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryReplace(t *testing.T) {
	repo, mock, cleanup := newRosterMock(t)
	defer cleanup()

	roster := timetable.Roster{
		Entries: []timetable.RosterEntry{
			{TeacherCode: "NKP", TeacherName: "Dr. N. K. Patil", CourseCode: "TOC", CourseName: "Theory of Computation", Kind: timetable.KindTheory},
		},
		Rooms: timetable.Rooms{Theory: []string{"A-101"}, Lab: []string{"Lab-1"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM roster_entries").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM rooms").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO roster_entries").
		WithArgs(0, "NKP", "Dr. N. K. Patil", "TOC", "Theory of Computation", "TH").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO rooms").WithArgs(0, "A-101", "theory").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO rooms").WithArgs(0, "Lab-1", "lab").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Replace(context.Background(), roster))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRosterRepositoryReplaceRollsBack(t *testing.T) {
	repo, mock, cleanup := newRosterMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM roster_entries").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), timetable.Roster{})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
