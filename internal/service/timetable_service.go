package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campusops/timetable-api/internal/dto"
	"github.com/campusops/timetable-api/internal/engine"
	"github.com/campusops/timetable-api/internal/models"
	appErrors "github.com/campusops/timetable-api/pkg/errors"
	"github.com/campusops/timetable-api/pkg/export"
)

type courseReader interface {
	ListActiveByTerm(ctx context.Context, term models.Term) ([]models.CourseData, error)
}

type classroomReader interface {
	ListActive(ctx context.Context) ([]models.ClassroomData, error)
}

type timetableStore interface {
	ListByTerm(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduleItem, error)
	DeleteNonFixedByTerm(ctx context.Context, tx *sqlx.Tx, term models.Term) error
	BulkInsertWithTx(ctx context.Context, tx *sqlx.Tx, items []models.ScheduleItem) error
}

type settingsReader interface {
	GetTimeSettings(ctx context.Context) (models.TimeSettings, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// TimetableConfig tunes run behaviour.
type TimetableConfig struct {
	RunTimeout time.Duration
	CacheTTL   time.Duration
}

// TimetableService orchestrates engine runs and stored-timetable reads.
type TimetableService struct {
	courses   courseReader
	rooms     classroomReader
	store     timetableStore
	settings  settingsReader
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableConfig
}

// NewTimetableService wires the timetable dependencies.
func NewTimetableService(
	courses courseReader,
	rooms classroomReader,
	store timetableStore,
	settings settingsReader,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 2 * time.Minute
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &TimetableService{
		courses:   courses,
		rooms:     rooms,
		store:     store,
		settings:  settings,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate loads the term snapshot, runs the engine and optionally persists
// the produced schedule.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	term := models.Term(req.Term)

	settings, err := s.resolveSettings(ctx, req.Settings)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.ListActiveByTerm(ctx, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptySnapshot, fmt.Sprintf("no active courses for term %s", term))
	}

	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	eng := engine.New(settings, rand.New(rand.NewSource(seed)), s.logger.Named("engine"))

	started := time.Now()
	result, err := s.runWithTimeout(ctx, eng, courses, rooms)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveEngineRun(string(term), result.Success, time.Since(started), result.SuccessRate, result.ImproverSwaps)
	s.logger.Info("timetable run finished",
		zap.String("term", string(term)),
		zap.Int64("seed", seed),
		zap.Bool("success", result.Success),
		zap.Float64("successRate", result.SuccessRate),
		zap.Int("scheduled", result.ScheduledCount),
		zap.Int("unscheduled", result.UnscheduledCount),
	)

	persisted := false
	if req.Persist && len(result.Schedule) > 0 {
		if err := s.persist(ctx, term, result.Schedule); err != nil {
			return nil, err
		}
		persisted = true
		s.cache.Invalidate(ctx, timetableCachePattern(term))
	}

	return &dto.GenerateTimetableResponse{
		Term:      string(term),
		Persisted: persisted,
		Result:    result,
	}, nil
}

// runWithTimeout executes the engine on its own goroutine so a runaway run
// cannot hold the request past the configured budget.
func (s *TimetableService) runWithTimeout(ctx context.Context, eng *engine.Engine, courses []models.CourseData, rooms []models.ClassroomData) (*engine.Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	done := make(chan *engine.Result, 1)
	go func() {
		done <- eng.Run(courses, rooms)
	}()

	select {
	case <-runCtx.Done():
		return nil, appErrors.Clone(appErrors.ErrTimeout, fmt.Sprintf("timetable run exceeded %s", s.cfg.RunTimeout))
	case result := <-done:
		return result, nil
	}
}

func (s *TimetableService) resolveSettings(ctx context.Context, override *models.TimeSettings) (models.TimeSettings, error) {
	if override != nil {
		return *override, nil
	}
	settings, err := s.settings.GetTimeSettings(ctx)
	if err != nil {
		return models.TimeSettings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time settings")
	}
	return settings, nil
}

// persist replaces the term's engine-produced placements inside one
// transaction. Fixed rows live in the table independently of runs, so only
// the non-fixed output is written back.
func (s *TimetableService) persist(ctx context.Context, term models.Term, schedule []models.ScheduleItem) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.store.DeleteNonFixedByTerm(ctx, tx, term); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous timetable")
	}

	generated := lo.Filter(schedule, func(item models.ScheduleItem, _ int) bool {
		return !item.IsFixed
	})
	if err := s.store.BulkInsertWithTx(ctx, tx, generated); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable")
	}

	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
	}
	return nil
}

// List returns stored placements for a term, served from cache when possible.
func (s *TimetableService) List(ctx context.Context, query dto.TimetableQuery) ([]models.ScheduleItem, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable query")
	}

	filter := models.TimetableFilter{
		Term:        models.Term(query.Term),
		CourseID:    query.CourseID,
		ClassroomID: query.ClassroomID,
		Day:         query.Day,
	}

	key := timetableCacheKey(filter)
	var items []models.ScheduleItem
	if s.cache.Get(ctx, key, &items) {
		return items, nil
	}

	started := time.Now()
	items, err := s.store.ListByTerm(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}
	s.metrics.ObserveDBQuery("timetable_list", time.Since(started))

	s.cache.Set(ctx, key, items, s.cfg.CacheTTL)
	return items, nil
}

// Export renders the stored timetable of a term as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, query dto.ExportTimetableQuery) ([]byte, string, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}
	format := query.Format
	if format == "" {
		format = "csv"
	}

	items, err := s.List(ctx, dto.TimetableQuery{Term: query.Term})
	if err != nil {
		return nil, "", err
	}
	if len(items) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no stored timetable for term %s", query.Term))
	}

	dataset := buildTimetableDataset(items)
	filename := fmt.Sprintf("timetable-%s-%s.%s", query.Term, time.Now().Format("20060102"), format)

	var payload []byte
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
	case "pdf":
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("%s timetable", query.Term))
	}
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return payload, filename, nil
}

func buildTimetableDataset(items []models.ScheduleItem) export.Dataset {
	headers := []string{"Day", "Time", "Course", "Classroom", "Type", "Hours", "Fixed"}
	rows := lo.Map(items, func(item models.ScheduleItem, _ int) map[string]string {
		return map[string]string{
			"Day":       item.Day,
			"Time":      item.TimeRange,
			"Course":    item.CourseID,
			"Classroom": item.ClassroomID,
			"Type":      string(item.SessionType),
			"Hours":     strconv.Itoa(item.SessionHours),
			"Fixed":     strconv.FormatBool(item.IsFixed),
		}
	})
	return export.Dataset{Headers: headers, Rows: rows}
}

func timetableCacheKey(filter models.TimetableFilter) string {
	return fmt.Sprintf("timetable:%s:%s:%s:%s", filter.Term, filter.CourseID, filter.ClassroomID, filter.Day)
}

func timetableCachePattern(term models.Term) string {
	return fmt.Sprintf("timetable:%s:*", term)
}
