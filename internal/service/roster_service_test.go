package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/timetable"
	"github.com/noah-isme/timetable-api/pkg/config"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type memoryCacheRepo struct {
	values  map[string][]byte
	deleted []string
	getErr  error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	m.values = map[string][]byte{}
	return nil
}

type stubRosterStore struct {
	roster   *timetable.Roster
	err      error
	loads    int
	replaced *timetable.Roster
}

func (s *stubRosterStore) Load(context.Context) (*timetable.Roster, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.roster, nil
}

func (s *stubRosterStore) Replace(_ context.Context, roster timetable.Roster) error {
	if s.err != nil {
		return s.err
	}
	s.replaced = &roster
	return nil
}

const sampleRosterYAML = `
entries:
  - teacher_code: NKP
    teacher_name: Dr. N. K. Patil
    course_code: TOC
    course_name: Theory of Computation
    kind: TH
  - teacher_code: AVD
    course_code: CNL
    kind: LAB
rooms:
  theory: [B-201]
  lab: [Lab-9]
days: [Monday, Wednesday, Friday]
`

func TestRosterServiceStaticSource(t *testing.T) {
	svc := NewRosterService(config.RosterConfig{Source: config.RosterSourceStatic}, nil, nil, nil, nil)
	plan, cached, err := svc.Plan(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, timetable.DefaultDays, plan.Days)
	assert.Len(t, plan.Entries, len(timetable.DefaultRoster.Entries))
	assert.Len(t, plan.Geometry(), 7)
	assert.Equal(t, config.RosterSourceStatic, svc.Source())
}

func TestParsePlanYAML(t *testing.T) {
	plan, err := ParsePlanYAML([]byte(sampleRosterYAML))
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)
	assert.Equal(t, "Theory of Computation", plan.Entries[0].CourseName)
	assert.Equal(t, timetable.KindLab, plan.Entries[1].Kind)
	assert.Equal(t, []string{"B-201"}, plan.Rooms.Theory)
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, plan.Days)
	assert.Equal(t, timetable.DefaultDayLayout, plan.Layout)

	_, err = ParsePlanYAML([]byte("entries: []\nsemester: 5\n"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = ParsePlanYAML(nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRosterServiceFileSourceUsesCache(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, time.Minute, nil, true)
	svc := NewRosterService(config.RosterConfig{Source: config.RosterSourceFile, File: "roster.yaml"}, nil, cache, nil, nil)

	reads := 0
	svc.readFile = func(path string) ([]byte, error) {
		reads++
		assert.Equal(t, "roster.yaml", path)
		return []byte(sampleRosterYAML), nil
	}

	first, cached, err := svc.Plan(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Contains(t, repo.values, svc.cacheKey())
	assert.True(t, strings.HasPrefix(svc.cacheKey(), "roster:file:"))

	second, cached, err := svc.Plan(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, reads)
	assert.Equal(t, first, second)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
}

func TestRosterServiceFileSourcesSharingCacheStaySeparate(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	files := map[string]string{
		"a.yaml": "entries:\n  - teacher_code: AAA\n    course_code: ALG\n    kind: TH\n",
		"b.yaml": "entries:\n  - teacher_code: BBB\n    course_code: BIO\n    kind: TH\n",
	}
	readFile := func(path string) ([]byte, error) {
		raw, ok := files[path]
		if !ok {
			return nil, errors.New("no such file")
		}
		return []byte(raw), nil
	}

	first := NewRosterService(config.RosterConfig{Source: config.RosterSourceFile, File: "a.yaml"}, nil, cache, nil, nil)
	first.readFile = readFile
	second := NewRosterService(config.RosterConfig{Source: config.RosterSourceFile, File: "b.yaml"}, nil, cache, nil, nil)
	second.readFile = readFile
	require.NotEqual(t, first.cacheKey(), second.cacheKey())

	planA, _, err := first.Plan(context.Background())
	require.NoError(t, err)
	require.Len(t, planA.Entries, 1)
	assert.Equal(t, "AAA", planA.Entries[0].TeacherCode)

	planB, cached, err := second.Plan(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, planB.Entries, 1)
	assert.Equal(t, "BBB", planB.Entries[0].TeacherCode)

	again, cached, err := first.Plan(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, "AAA", again.Entries[0].TeacherCode)
}

func TestRosterServiceCacheFailureFallsThrough(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.getErr = errors.New("redis: connection refused")
	store := &stubRosterStore{roster: &timetable.Roster{Entries: timetable.DefaultRoster.Entries}}
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewRosterService(config.RosterConfig{Source: config.RosterSourceDatabase}, store, cache, nil, nil)

	plan, cached, err := svc.Plan(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, store.loads)
	assert.Equal(t, timetable.DefaultDays, plan.Days)
}

func TestRosterServiceFileErrors(t *testing.T) {
	svc := NewRosterService(config.RosterConfig{Source: config.RosterSourceFile, File: "missing.yaml"}, nil, nil, nil, nil)
	svc.readFile = func(string) ([]byte, error) { return nil, errors.New("no such file") }
	_, _, err := svc.Plan(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrRosterUnavailable)

	svc.readFile = func(string) ([]byte, error) {
		return []byte("entries:\n  - teacher_code: X\n    course_code: Y\n    kind: SEMINAR\n"), nil
	}
	_, _, err = svc.Plan(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	svc.readFile = func(string) ([]byte, error) {
		return []byte("entries: []\nlayout:\n  - start_time: \"10:00\"\n    end_time: \"09:00\"\n    type: class\n"), nil
	}
	_, _, err = svc.Plan(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	svc.readFile = func(string) ([]byte, error) {
		return []byte("entries: []\ndays: [Monday, Monday]\n"), nil
	}
	_, _, err = svc.Plan(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRosterServiceDatabaseSource(t *testing.T) {
	store := &stubRosterStore{err: errors.New("connection reset")}
	svc := NewRosterService(config.RosterConfig{Source: config.RosterSourceDatabase}, store, nil, nil, nil)
	_, _, err := svc.Plan(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrRosterUnavailable)

	svc = NewRosterService(config.RosterConfig{Source: config.RosterSourceDatabase}, nil, nil, nil, nil)
	_, _, err = svc.Plan(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrRosterUnavailable)
}

func TestRosterServiceImport(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.values["roster:database"] = []byte(`{}`)
	store := &stubRosterStore{}
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewRosterService(config.RosterConfig{Source: config.RosterSourceDatabase}, store, cache, nil, nil)

	require.NoError(t, svc.Import(context.Background(), timetable.DefaultRoster))
	require.NotNil(t, store.replaced)
	assert.Len(t, store.replaced.Entries, 8)
	assert.Equal(t, []string{"roster:*"}, repo.deleted)
	assert.Empty(t, repo.values)

	bad := timetable.Roster{Entries: []timetable.RosterEntry{{TeacherCode: "X", Kind: timetable.KindTheory}}}
	assert.ErrorIs(t, svc.Import(context.Background(), bad), appErrors.ErrValidation)

	static := NewRosterService(config.RosterConfig{Source: config.RosterSourceStatic}, store, nil, nil, nil)
	assert.ErrorIs(t, static.Import(context.Background(), timetable.DefaultRoster), appErrors.ErrPreconditionFailed)
}

func TestRosterServiceImportPlanRejectsCustomWeek(t *testing.T) {
	store := &stubRosterStore{}
	svc := NewRosterService(config.RosterConfig{Source: config.RosterSourceDatabase}, store, nil, nil, nil)

	custom, err := ParsePlanYAML([]byte(sampleRosterYAML))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ImportPlan(context.Background(), custom), appErrors.ErrValidation)
	assert.Nil(t, store.replaced)

	plain, err := ParsePlanYAML([]byte(strings.Replace(sampleRosterYAML, "days: [Monday, Wednesday, Friday]\n", "", 1)))
	require.NoError(t, err)
	require.NoError(t, svc.ImportPlan(context.Background(), plain))
	require.NotNil(t, store.replaced)
	assert.Equal(t, plain.Entries, store.replaced.Entries)
}
