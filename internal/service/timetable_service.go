package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
)

type timetableRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, timetable *models.Timetable, courses []models.TimetableCourse) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Timetable, error)
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	ListCourses(ctx context.Context, timetableID string) ([]models.TimetableCourse, error)
	Delete(ctx context.Context, id string) error
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// ExportResult is a rendered export document.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// TimetableServiceConfig governs layout defaults and retention.
type TimetableServiceConfig struct {
	Window      models.GridWindow
	ProposalTTL time.Duration
	CacheTTL    time.Duration
}

// TimetableService runs the normalization, merge, and layout pipeline and
// manages previewed proposals and saved timetables.
type TimetableService struct {
	normalizer *CourseNormalizer
	merger     *SlotMerger
	aggregator *CreditAggregator
	projector  *GridProjector
	repo       timetableRepository
	cache      timetableCache
	tx         txProvider
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	store      *proposalStore
	cfg        TimetableServiceConfig
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
}

// NewTimetableService wires the pipeline components.
func NewTimetableService(
	normalizer *CourseNormalizer,
	merger *SlotMerger,
	aggregator *CreditAggregator,
	projector *GridProjector,
	repo timetableRepository,
	cache timetableCache,
	tx txProvider,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if normalizer == nil {
		normalizer = NewCourseNormalizer(nil, nil, logger)
	}
	if merger == nil {
		merger = NewSlotMerger(nil)
	}
	if aggregator == nil {
		aggregator = NewCreditAggregator()
	}
	if projector == nil {
		projector = NewGridProjector(nil)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Window.EndHour <= cfg.Window.StartHour || len(cfg.Window.Days) == 0 {
		cfg.Window = DefaultGridWindow()
	}
	return &TimetableService{
		normalizer: normalizer,
		merger:     merger,
		aggregator: aggregator,
		projector:  projector,
		repo:       repo,
		cache:      cache,
		tx:         tx,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		store:      newProposalStore(cfg.ProposalTTL),
		cfg:        cfg,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
	}
}

// layoutResult carries every stage's output for one pipeline run.
type layoutResult struct {
	Slots    []models.AtomicSlot
	Blocks   []models.MergedBlock
	Grid     []models.PositionedBlock
	Summary  models.CreditSummary
	Warnings []models.Warning
}

// buildLayout runs the pure pipeline: expand, merge, aggregate, project.
func (s *TimetableService) buildLayout(records []models.CourseRecord, window models.GridWindow) layoutResult {
	start := time.Now()

	slots, warnings := s.normalizer.NormalizeAll(records)
	blocks := s.merger.MergeByDay(slots)
	summary := s.aggregator.Summarize(slots)
	grid := s.projector.Project(blocks, window)

	s.metrics.ObserveTimetableBuild(time.Since(start), len(warnings))

	return layoutResult{
		Slots:    slots,
		Blocks:   blocks,
		Grid:     grid,
		Summary:  summary,
		Warnings: warnings,
	}
}

// Preview lays out the submitted course records and retains the proposal for
// a later save.
func (s *TimetableService) Preview(ctx context.Context, req dto.PreviewTimetableRequest) (*dto.PreviewTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preview payload")
	}

	window := s.resolveWindow(req.Window)
	result := s.buildLayout(req.Courses, window)

	proposal := timetableProposal{
		ProposalID:  uuid.NewString(),
		Records:     req.Courses,
		Window:      window,
		Result:      result,
		RequestedAt: time.Now().UTC(),
	}
	s.store.Save(proposal)

	return &dto.PreviewTimetableResponse{
		ProposalID: proposal.ProposalID,
		Blocks:     result.Grid,
		Summary:    result.Summary,
		Warnings:   result.Warnings,
	}, nil
}

// Save persists a previewed proposal as a timetable owned by the caller.
func (s *TimetableService) Save(ctx context.Context, ownerID string, req dto.SaveTimetableRequest) (string, error) {
	if ownerID == "" {
		return "", appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save payload")
	}
	proposal, ok := s.store.Get(req.ProposalID)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if s.tx == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	metaPayload := map[string]any{
		"summary":   proposal.Result.Summary,
		"warnings":  len(proposal.Result.Warnings),
		"window":    proposal.Window,
		"generated": proposal.RequestedAt,
	}
	metaBytes, marshalErr := json.Marshal(metaPayload)
	if marshalErr != nil {
		err = appErrors.Wrap(marshalErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable metadata")
		return "", err
	}

	record := &models.Timetable{
		OwnerID: ownerID,
		Title:   req.Title,
		Meta:    types.JSONText(metaBytes),
	}

	courses := make([]models.TimetableCourse, 0, len(proposal.Records))
	for _, course := range proposal.Records {
		courses = append(courses, models.TimetableCourse{
			CourseID:         course.CourseID,
			CourseName:       course.CourseName,
			Professor:        course.Professor,
			DayOfWeek:        strings.ToUpper(strings.TrimSpace(course.DayOfWeek)),
			StartPeriod:      course.StartPeriod,
			EndPeriod:        course.EndPeriod,
			Credit:           course.Credit,
			Category:         course.Category,
			Room:             course.Room,
			RecommendedGrade: course.RecommendedGrade,
		})
	}

	if err = s.repo.Create(ctx, tx, record, courses); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable")
		return "", err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable transaction")
		return "", err
	}

	s.store.Delete(req.ProposalID)
	return record.ID, nil
}

// List returns the caller's saved timetables.
func (s *TimetableService) List(ctx context.Context, ownerID string) ([]models.Timetable, error) {
	if ownerID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	timetables, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	return timetables, nil
}

// Get loads a saved timetable and rebuilds its rendered layout, serving from
// cache when possible.
func (s *TimetableService) Get(ctx context.Context, ownerID, id string) (*dto.TimetableView, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}

	cacheKey := viewCacheKey(id)
	if s.cache != nil {
		var cached dto.TimetableView
		start := time.Now()
		err := s.cache.Get(ctx, cacheKey, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		if err == nil {
			if cached.Timetable.OwnerID != ownerID {
				return nil, appErrors.ErrForbidden
			}
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("timetable view cache read failed", zap.String("id", id), zap.Error(err))
		}
	}

	view, err := s.loadView(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, cacheKey, view, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("timetable view cache write failed", zap.String("id", id), zap.Error(err))
		}
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
	return view, nil
}

// Delete removes a saved timetable owned by the caller.
func (s *TimetableService) Delete(ctx context.Context, ownerID, id string) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if record.OwnerID != ownerID {
		return appErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, viewCacheKey(id)); err != nil {
			s.logger.Warn("timetable view cache invalidation failed", zap.String("id", id), zap.Error(err))
		}
	}
	return nil
}

// Export renders a saved timetable as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, ownerID, id, format string) (*ExportResult, error) {
	view, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	result := s.buildLayout(view.Courses, s.cfg.Window)
	dataset := blockDataset(result.Blocks, result.Summary)

	switch strings.ToLower(format) {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("timetable-%s.csv", id),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, view.Timetable.Title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("timetable-%s.pdf", id),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnknownFormat, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *TimetableService) loadView(ctx context.Context, ownerID, id string) (*dto.TimetableView, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if record.OwnerID != ownerID {
		return nil, appErrors.ErrForbidden
	}

	stored, err := s.repo.ListCourses(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable courses")
	}

	records := make([]models.CourseRecord, 0, len(stored))
	for _, course := range stored {
		records = append(records, course.CourseRecord())
	}

	result := s.buildLayout(records, s.cfg.Window)
	return &dto.TimetableView{
		Timetable: *record,
		Courses:   records,
		Blocks:    result.Grid,
		Summary:   result.Summary,
		Warnings:  result.Warnings,
	}, nil
}

func (s *TimetableService) resolveWindow(req *dto.GridWindowRequest) models.GridWindow {
	window := s.cfg.Window
	if req == nil {
		return window
	}
	if req.EndHour > req.StartHour && req.StartHour >= 0 {
		window.StartHour = req.StartHour
		window.EndHour = req.EndHour
	}
	if len(req.Days) > 0 {
		days := make([]models.Weekday, 0, len(req.Days))
		for _, day := range req.Days {
			days = append(days, models.Weekday(strings.ToUpper(strings.TrimSpace(day))))
		}
		window.Days = days
	}
	return window
}

func viewCacheKey(id string) string {
	return fmt.Sprintf("timetable:view:%s", id)
}

func blockDataset(blocks []models.MergedBlock, summary models.CreditSummary) export.Dataset {
	headers := []string{"Day", "Start", "End", "Subject", "Room", "Type", "Credits"}
	rows := make([]map[string]string, 0, len(blocks)+1)
	for _, block := range blocks {
		rows = append(rows, map[string]string{
			"Day":     string(block.Weekday),
			"Start":   hourLabel(block.StartHour),
			"End":     hourLabel(block.EndHour),
			"Subject": block.Subject,
			"Room":    block.Room,
			"Type":    string(block.Type),
			"Credits": fmt.Sprintf("%d", block.Credits),
		})
	}
	rows = append(rows, map[string]string{
		"Day":     "TOTAL",
		"Subject": fmt.Sprintf("major %d / general %d", summary.MajorCredits, summary.GeneralCredits),
		"Credits": fmt.Sprintf("%d", summary.TotalCredits),
	})
	return export.Dataset{Headers: headers, Rows: rows}
}

func hourLabel(hour float64) string {
	minutes := int(hour*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// --- Proposal cache ---

type timetableProposal struct {
	ProposalID  string
	Records     []models.CourseRecord
	Window      models.GridWindow
	Result      layoutResult
	RequestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]timetableProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]timetableProposal),
	}
}

func (s *proposalStore) Save(proposal timetableProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (timetableProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return timetableProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return timetableProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
