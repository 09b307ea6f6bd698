package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/timetable"
	"github.com/noah-isme/timetable-api/pkg/config"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatICS  = "ics"
)

const defaultCalendarWeeks = 16

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatICS:  "text/calendar; charset=utf-8",
}

type rosterProvider interface {
	Plan(ctx context.Context) (timetable.Plan, bool, error)
	Source() string
}

type tableRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type calendarRenderer interface {
	Render(name string, events []export.Event, stamp time.Time) ([]byte, error)
}

// TimetableService generates weekly timetables and renders them for download.
type TimetableService struct {
	roster    rosterProvider
	engine    *timetable.Engine
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.SchedulerConfig
	location  *time.Location

	tables   map[string]tableRenderer
	calendar calendarRenderer

	now  func() time.Time
	seed func() int64
}

// NewTimetableService wires the placement engine to a roster source.
func NewTimetableService(
	roster rosterProvider,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.SchedulerConfig,
	exportCfg config.ExportConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxBatchDivisions <= 0 {
		cfg.MaxBatchDivisions = len(timetable.Divisions)
	}
	location, err := time.LoadLocation(exportCfg.Timezone)
	if err != nil {
		logger.Warn("unknown export timezone, using local time", zap.String("timezone", exportCfg.Timezone), zap.Error(err))
		location = time.Local
	}
	return &TimetableService{
		roster: roster,
		engine: timetable.NewEngine(timetable.EngineConfig{
			TrialBudget:            cfg.TrialBudget,
			PreferenceTrials:       cfg.PreferenceTrials,
			MaxDailySingleSessions: cfg.MaxDailySessions,
		}),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		location:  location,
		tables: map[string]tableRenderer{
			FormatCSV:  export.NewCSVExporter(),
			FormatPDF:  export.NewPDFExporter(),
			FormatXLSX: export.NewXLSXExporter(),
		},
		calendar: export.NewICSExporter(""),
		now:      time.Now,
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

// generation is one placement run and everything needed to present it.
type generation struct {
	plan     timetable.Plan
	geometry timetable.SlotGeometry
	result   *timetable.PlacementResult
	response dto.TimetableResponse
}

// Generate builds one timetable. A missing seed is drawn at random and echoed back.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error) {
	gen, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &gen.response, nil
}

func (s *TimetableService) generate(ctx context.Context, req dto.GenerateTimetableRequest) (*generation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable request")
	}
	branchLabel, divisionLabel, err := resolveLabels(req.Branch, req.Division)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	plan, cached, err := s.loadPlan(ctx)
	if err != nil {
		return nil, err
	}
	seed := s.resolveSeed(req.Seed)
	opts := timetable.CatalogOptions{SkipLibrary: req.SkipLibrary, SkipProject: req.SkipProject}

	gen, err := s.run(plan, seed, opts)
	if err != nil {
		return nil, err
	}
	gen.response.Branch, gen.response.BranchLabel = req.Branch, branchLabel
	gen.response.Division, gen.response.DivisionLabel = req.Division, divisionLabel
	gen.response.RosterCached = cached
	s.logGeneration(gen)
	return gen, nil
}

// GenerateBatch builds one timetable per division concurrently. Division i
// uses seed base+i so a batch is reproducible from its base seed.
func (s *TimetableService) GenerateBatch(ctx context.Context, req dto.BatchGenerateRequest) (*dto.BatchGenerateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch request")
	}
	if len(req.Divisions) > s.cfg.MaxBatchDivisions {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d divisions per batch", s.cfg.MaxBatchDivisions))
	}
	branchLabel, ok := timetable.OptionLabel(timetable.Branches, req.Branch)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown branch %q", req.Branch))
	}
	divisionLabels := make([]string, len(req.Divisions))
	seen := make(map[string]struct{}, len(req.Divisions))
	for i, division := range req.Divisions {
		if _, dup := seen[division]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("division %q requested twice", division))
		}
		seen[division] = struct{}{}
		label, ok := timetable.OptionLabel(timetable.Divisions, division)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown division %q", division))
		}
		divisionLabels[i] = label
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	plan, cached, err := s.loadPlan(ctx)
	if err != nil {
		return nil, err
	}
	base := s.resolveSeed(req.Seed)
	opts := timetable.CatalogOptions{SkipLibrary: req.SkipLibrary, SkipProject: req.SkipProject}

	timetables := make([]dto.TimetableResponse, len(req.Divisions))
	g, gctx := errgroup.WithContext(ctx)
	for i := range req.Divisions {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			gen, err := s.run(plan, base+int64(i), opts)
			if err != nil {
				return err
			}
			gen.response.Branch, gen.response.BranchLabel = req.Branch, branchLabel
			gen.response.Division, gen.response.DivisionLabel = req.Divisions[i], divisionLabels[i]
			gen.response.RosterCached = cached
			s.logGeneration(gen)
			timetables[i] = gen.response
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.contextError(err)
	}
	return &dto.BatchGenerateResponse{Branch: req.Branch, Timetables: timetables}, nil
}

// Export generates a timetable and renders it in the requested format.
func (s *TimetableService) Export(ctx context.Context, req dto.ExportTimetableRequest) (*dto.ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if _, ok := contentTypes[format]; !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", req.Format))
	}
	req.Format = format
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	gen, err := s.generate(ctx, req.GenerateTimetableRequest)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("%s - %s", gen.response.BranchLabel, gen.response.DivisionLabel)

	var body []byte
	if format == FormatICS {
		body, err = s.renderCalendar(gen, title, req.WeekOf, req.Weeks)
	} else {
		body, err = s.tables[format].Render(BuildDataset(title, gen.geometry, gen.result.Grid))
	}
	if err != nil {
		return nil, err
	}

	return &dto.ExportFile{
		Filename:    fmt.Sprintf("timetable-%s-%s-%d.%s", req.Branch, req.Division, gen.response.Seed, format),
		ContentType: contentTypes[format],
		Body:        body,
		Seed:        gen.response.Seed,
	}, nil
}

// Legend lists every session kind with its display tokens.
func (s *TimetableService) Legend() []dto.LegendEntry {
	entries := make([]dto.LegendEntry, 0, len(timetable.Kinds))
	for _, kind := range timetable.Kinds {
		entries = append(entries, dto.LegendEntry{
			Type:       string(kind),
			Label:      timetable.KindLabel(kind),
			ClassColor: timetable.ClassColor(kind),
			TypeBadge:  timetable.TypeBadge(kind),
		})
	}
	return entries
}

// Slots describes the teaching week of the active plan.
func (s *TimetableService) Slots(ctx context.Context) (*dto.SlotsResponse, error) {
	plan, _, err := s.loadPlan(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SlotsResponse{
		Days:       plan.Days,
		Layout:     plan.Layout,
		ClassSlots: plan.Geometry().Labels(),
	}, nil
}

// Roster returns the active roster with the selectable branches and divisions.
func (s *TimetableService) Roster(ctx context.Context) (*dto.RosterResponse, error) {
	plan, _, err := s.loadPlan(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RosterResponse{
		Source:    s.roster.Source(),
		Roster:    plan.Roster,
		Branches:  timetable.Branches,
		Divisions: timetable.Divisions,
	}, nil
}

func (s *TimetableService) run(plan timetable.Plan, seed int64, opts timetable.CatalogOptions) (*generation, error) {
	pool := timetable.BuildSessionPool(plan.Roster, opts)
	geometry := plan.Geometry()
	if len(geometry) < 2 && timetable.HasDoubleSlot(pool) {
		s.metrics.RecordGenerationFailure()
		return nil, appErrors.Clone(appErrors.ErrValidation, "day layout needs at least two class slots for laboratory sessions")
	}

	start := time.Now()
	result, err := s.engine.Place(pool, plan.Days, geometry, rand.New(rand.NewSource(seed)))
	if err != nil {
		s.metrics.RecordGenerationFailure()
		if errors.Is(err, timetable.ErrMalformedGeometry) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "day layout has no days or class slots")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "placement failed")
	}
	s.metrics.ObserveGeneration(result, time.Since(start))

	gen := &generation{plan: plan, geometry: geometry, result: result}
	gen.response = BuildTimetableResponse(plan.Roster, geometry, result)
	gen.response.GenerationID = uuid.NewString()
	gen.response.Seed = seed
	gen.response.RosterSource = s.roster.Source()
	gen.response.GeneratedAt = s.now().UTC()
	return gen, nil
}

func (s *TimetableService) loadPlan(ctx context.Context) (timetable.Plan, bool, error) {
	plan, cached, err := s.roster.Plan(ctx)
	if err != nil {
		return timetable.Plan{}, false, s.contextError(err)
	}
	return plan, cached, nil
}

func (s *TimetableService) logGeneration(gen *generation) {
	fields := []zap.Field{
		zap.String("generation_id", gen.response.GenerationID),
		zap.String("branch", gen.response.Branch),
		zap.String("division", gen.response.Division),
		zap.Int64("seed", gen.response.Seed),
		zap.Int("unplaced", len(gen.result.Unplaced)),
	}
	for _, session := range gen.result.Unplaced {
		s.logger.Warn("session could not be placed",
			zap.String("generation_id", gen.response.GenerationID),
			zap.String("session_id", session.ID),
			zap.String("teacher", session.TeacherCode),
			zap.String("course", session.CourseCode),
			zap.String("kind", string(session.Kind)),
		)
	}
	s.logger.Info("timetable generated", fields...)
}

func (s *TimetableService) resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return s.seed()
}

func (s *TimetableService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.GenerationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.GenerationTimeout)
}

func (s *TimetableService) contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, "timetable generation timed out")
	}
	return err
}

func resolveLabels(branch, division string) (string, string, error) {
	branchLabel, ok := timetable.OptionLabel(timetable.Branches, branch)
	if !ok {
		return "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown branch %q", branch))
	}
	divisionLabel, ok := timetable.OptionLabel(timetable.Divisions, division)
	if !ok {
		return "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown division %q", division))
	}
	return branchLabel, divisionLabel, nil
}
