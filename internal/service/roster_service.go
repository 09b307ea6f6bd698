package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/timetable-api/internal/timetable"
	"github.com/noah-isme/timetable-api/pkg/config"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

const rosterCachePrefix = "roster:"

// RosterStore persists the roster for the database source.
type RosterStore interface {
	Load(ctx context.Context) (*timetable.Roster, error)
	Replace(ctx context.Context, roster timetable.Roster) error
}

// RosterService resolves the generation plan from the configured source.
type RosterService struct {
	source    string
	file      string
	store     RosterStore
	cache     *CacheService
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	readFile  func(string) ([]byte, error)
}

// NewRosterService wires a roster source. store is only consulted for the database source.
func NewRosterService(cfg config.RosterConfig, store RosterStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	source := cfg.Source
	if source == "" {
		source = config.RosterSourceStatic
	}
	return &RosterService{
		source:    source,
		file:      cfg.File,
		store:     store,
		cache:     cache,
		ttl:       cfg.CacheTTL,
		validator: validate,
		logger:    logger,
		readFile:  os.ReadFile,
	}
}

// Source names the active roster source.
func (s *RosterService) Source() string {
	return s.source
}

// Plan returns the roster, days and day layout for a generation run and
// whether it was served from cache.
func (s *RosterService) Plan(ctx context.Context) (timetable.Plan, bool, error) {
	if s.source == config.RosterSourceStatic {
		return timetable.DefaultPlan(), false, nil
	}

	key := s.cacheKey()
	var cached timetable.Plan
	hit, err := s.cache.Get(ctx, key, &cached)
	if err == nil && hit {
		return cached, true, nil
	}

	plan, err := s.loadSource(ctx)
	if err != nil {
		return timetable.Plan{}, false, err
	}
	if err := s.validatePlan(plan); err != nil {
		return timetable.Plan{}, false, err
	}

	_ = s.cache.Set(ctx, key, plan, s.ttl)
	return plan, false, nil
}

// Import validates roster and replaces the stored copy. Only the database source accepts imports.
func (s *RosterService) Import(ctx context.Context, roster timetable.Roster) error {
	if s.source != config.RosterSourceDatabase || s.store == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "roster import requires the database roster source")
	}
	if err := s.validatePlan(timetable.Plan{Roster: roster}.WithDefaults()); err != nil {
		return err
	}
	if err := s.store.Replace(ctx, roster); err != nil {
		return appErrors.Wrap(err, appErrors.ErrRosterUnavailable.Code, appErrors.ErrRosterUnavailable.Status, "failed to store roster")
	}
	if err := s.cache.Invalidate(ctx, rosterCachePrefix+"*"); err != nil {
		s.logger.Warn("roster cache not invalidated after import", zap.Error(err))
	}
	s.logger.Info("roster imported", zap.Int("entries", len(roster.Entries)))
	return nil
}

// cacheKey scopes file rosters by path so two files never share an entry.
func (s *RosterService) cacheKey() string {
	if s.source != config.RosterSourceFile {
		return rosterCachePrefix + s.source
	}
	path := s.file
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha1.Sum([]byte(path))
	return rosterCachePrefix + s.source + ":" + hex.EncodeToString(sum[:])
}

// ImportPlan imports a parsed roster file. The database source stores only
// the roster, so a file that changes the teaching week is rejected.
func (s *RosterService) ImportPlan(ctx context.Context, plan timetable.Plan) error {
	if !plan.WithDefaults().UsesDefaultWeek() {
		return appErrors.Clone(appErrors.ErrValidation, "the database roster source always uses the built-in week; remove days and layout from the roster file")
	}
	return s.Import(ctx, plan.Roster)
}

func (s *RosterService) loadSource(ctx context.Context) (timetable.Plan, error) {
	switch s.source {
	case config.RosterSourceFile:
		raw, err := s.readFile(s.file)
		if err != nil {
			return timetable.Plan{}, appErrors.Wrap(err, appErrors.ErrRosterUnavailable.Code, appErrors.ErrRosterUnavailable.Status, "failed to read roster file")
		}
		return ParsePlanYAML(raw)
	case config.RosterSourceDatabase:
		if s.store == nil {
			return timetable.Plan{}, appErrors.Clone(appErrors.ErrRosterUnavailable, "roster database not configured")
		}
		roster, err := s.store.Load(ctx)
		if err != nil {
			return timetable.Plan{}, appErrors.Wrap(err, appErrors.ErrRosterUnavailable.Code, appErrors.ErrRosterUnavailable.Status, "failed to load roster")
		}
		return timetable.Plan{Roster: *roster}.WithDefaults(), nil
	default:
		return timetable.Plan{}, appErrors.Clone(appErrors.ErrRosterUnavailable, fmt.Sprintf("unknown roster source %q", s.source))
	}
}

func (s *RosterService) validatePlan(plan timetable.Plan) error {
	if err := s.validator.Struct(plan.Roster); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster")
	}
	for i, entry := range plan.Layout {
		start, end, err := entry.Clock()
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid layout entry %d", i))
		}
		if end <= start {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("layout entry %d ends before it starts", i))
		}
		switch entry.Type {
		case timetable.SlotTypeClass, timetable.SlotTypeBreak, timetable.SlotTypeLunch:
		default:
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("layout entry %d has unknown type %q", i, entry.Type))
		}
	}
	seen := make(map[string]struct{}, len(plan.Days))
	for _, day := range plan.Days {
		if _, dup := seen[day]; dup || day == "" {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid or duplicate day %q", day))
		}
		seen[day] = struct{}{}
	}
	return nil
}

// ParsePlanYAML decodes a roster file. Missing days or layout fall back to the built-in week.
func ParsePlanYAML(raw []byte) (timetable.Plan, error) {
	var plan timetable.Plan
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return timetable.Plan{}, appErrors.Clone(appErrors.ErrValidation, "roster file is empty")
		}
		return timetable.Plan{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster file")
	}
	return plan.WithDefaults(), nil
}
