package dayhistory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/tripmapper/tripmapper/internal/pathfile"
	"github.com/tripmapper/tripmapper/internal/trip"
)

// Service owns the day registry: fixed days, uploaded days, and the active
// pointer. Persistence is best-effort; when a store fails, the service
// degrades to an in-memory store for the rest of the process lifetime and
// public operations keep succeeding.
type Service struct {
	mu sync.Mutex

	meta          MetaStore
	paths         PathStore
	fallbackMeta  MetaStore
	fallbackPaths PathStore
	metaDegraded  bool
	pathsDegraded bool

	fixedDays []FixedDay
	log       zerolog.Logger
	now       func() time.Time
}

// ServiceConfig configures a day-history service. Nil stores mean
// memory-only operation; a zero Now defaults to time.Now.
type ServiceConfig struct {
	Meta      MetaStore
	Paths     PathStore
	FixedDays []FixedDay
	Logger    zerolog.Logger
	Now       func() time.Time
}

// NewService creates a day-history service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		meta:          cfg.Meta,
		paths:         cfg.Paths,
		fallbackMeta:  NewMemoryMetaStore(),
		fallbackPaths: NewMemoryPathStore(),
		fixedDays:     cfg.FixedDays,
		log:           cfg.Logger,
		now:           cfg.Now,
	}
	if s.meta == nil {
		s.meta = s.fallbackMeta
	}
	if s.paths == nil {
		s.paths = s.fallbackPaths
	}
	if len(s.fixedDays) == 0 {
		s.fixedDays = DefaultFixedDays()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// FixedDays returns the fixed day set in registration order.
func (s *Service) FixedDays() []FixedDay {
	out := make([]FixedDay, len(s.fixedDays))
	copy(out, s.fixedDays)
	return out
}

// IsFixedDay reports whether the id belongs to the fixed set.
func (s *Service) IsFixedDay(id string) bool {
	for _, day := range s.fixedDays {
		if day.ID == id {
			return true
		}
	}
	return false
}

// ListDays returns all day tabs: fixed days first in registration order,
// then uploaded days most-recent-first.
func (s *Service) ListDays(ctx context.Context) []Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tabs(s.readMeta(ctx))
}

// ActiveDayID returns the current active day id.
func (s *Service) ActiveDayID(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readMeta(ctx).ActiveDayID
}

// AllDayIDs returns the union of fixed and uploaded day ids.
func (s *Service) AllDayIDs(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.readMeta(ctx)
	ids := make([]string, 0, len(s.fixedDays)+len(meta.UploadedDays))
	for _, day := range s.fixedDays {
		ids = append(ids, day.ID)
	}
	for _, day := range meta.UploadedDays {
		ids = append(ids, day.ID)
	}
	return ids
}

// SetActiveDay activates a known day and returns the resulting active id.
// An unknown id is a no-op: the previously active day stays active. An
// unknown day is never silently registered.
func (s *Service) SetActiveDay(ctx context.Context, dayID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.readMeta(ctx)
	requested := strings.TrimSpace(dayID)
	if !s.knownDayID(meta, requested) {
		return meta.ActiveDayID
	}

	meta.ActiveDayID = requested
	return s.writeMeta(ctx, meta).ActiveDayID
}

// SaveUploadedPath parses an uploaded path file and registers or updates the
// matching uploaded day. The day is matched first by explicit day id, then
// by exact date. The saved day always becomes active. Geometry is written to
// the path store after the metadata commit and is best-effort: a failed
// geometry write never fails the save.
func (s *Service) SaveUploadedPath(ctx context.Context, fileText, filenameOrMimeHint string, opts SaveOptions) (SaveResult, error) {
	fc, err := pathfile.Parse(fileText, filenameOrMimeHint)
	if err != nil {
		return SaveResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.readMeta(ctx)
	opts = normalizeSaveOptions(opts)

	var existingByID, existingByDate *UploadedDay
	for i := range meta.UploadedDays {
		day := &meta.UploadedDays[i]
		if opts.DayID != "" && day.ID == opts.DayID {
			existingByID = day
		}
		if opts.Date != "" && day.Date == opts.Date && existingByDate == nil {
			existingByDate = day
		}
	}
	existing := existingByID
	if existing == nil {
		existing = existingByDate
	}

	now := s.now().UTC().Format(time.RFC3339)
	dayID := opts.DayID
	title := opts.Title
	date := opts.Date
	createdAt := now
	if existing != nil {
		dayID = existing.ID
		if title == "" {
			title = existing.Title
		}
		if date == "" {
			date = existing.Date
		}
		createdAt = existing.CreatedAt
	} else {
		dayID = s.buildUploadedDayID(meta, opts.DayID, opts.Date, opts.Title)
	}
	if title == "" {
		if date != "" {
			title = "Day " + date
		} else {
			title = "Uploaded Day"
		}
	}

	record := UploadedDay{
		ID:         dayID,
		Title:      title,
		Date:       date,
		Kind:       KindUploaded,
		SourceFile: opts.SourceFile,
		HasPath:    true,
		CreatedAt:  createdAt,
		UpdatedAt:  now,
	}

	// Drop the replaced record, and a same-date record when the id match
	// won, so one date never yields two days.
	next := meta.UploadedDays[:0:0]
	for _, day := range meta.UploadedDays {
		if day.ID == dayID {
			continue
		}
		if existingByDate != nil && day.ID == existingByDate.ID {
			continue
		}
		next = append(next, day)
	}
	meta.UploadedDays = append(next, record)
	meta.ActiveDayID = dayID
	saved := s.writeMeta(ctx, meta)

	s.writePath(ctx, dayID, fc)

	for _, day := range s.tabs(saved) {
		if day.ID == dayID {
			return SaveResult{Day: day, FeatureCollection: fc}, nil
		}
	}
	return SaveResult{}, fmt.Errorf("saved day %q missing from registry", dayID)
}

// DayPathGeoJSON returns the stored path overlay for an uploaded day, or nil
// when the day is fixed or no geometry is stored. A missing blob is treated
// as "no path" even when the metadata flags hasPath; the two writes are not
// transactional.
func (s *Service) DayPathGeoJSON(ctx context.Context, dayID string) *geojson.FeatureCollection {
	id := strings.TrimSpace(dayID)
	if id == "" || s.IsFixedDay(id) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store := s.paths
	if s.pathsDegraded {
		store = s.fallbackPaths
	}
	fc, err := store.ReadPath(ctx, id)
	if err == nil {
		return fc
	}
	if !errors.Is(err, ErrPathNotFound) && store != s.fallbackPaths {
		s.log.Warn().Err(err).Str("day_id", id).Msg("path store read failed, degrading to memory")
		s.pathsDegraded = true
		if fc, err := s.fallbackPaths.ReadPath(ctx, id); err == nil {
			return fc
		}
	}
	return nil
}

// readMeta loads and sanitizes the metadata record, creating the default on
// first read. Store failures degrade to the in-memory fallback.
func (s *Service) readMeta(ctx context.Context) Meta {
	store := s.meta
	if s.metaDegraded {
		store = s.fallbackMeta
	}

	meta, err := store.ReadMeta(ctx)
	if errors.Is(err, ErrMetaNotFound) {
		meta = defaultMeta()
		if writeErr := store.WriteMeta(ctx, meta); writeErr != nil && store != s.fallbackMeta {
			s.log.Warn().Err(writeErr).Msg("meta store write failed, degrading to memory")
			s.metaDegraded = true
			_ = s.fallbackMeta.WriteMeta(ctx, meta)
		}
		return s.sanitizeMeta(meta)
	}
	if err != nil {
		if store != s.fallbackMeta {
			s.log.Warn().Err(err).Msg("meta store read failed, degrading to memory")
			s.metaDegraded = true
			if fallback, fbErr := s.fallbackMeta.ReadMeta(ctx); fbErr == nil {
				return s.sanitizeMeta(fallback)
			}
		}
		return s.sanitizeMeta(defaultMeta())
	}
	return s.sanitizeMeta(meta)
}

// writeMeta sanitizes and persists the record. A failed write is swallowed;
// the in-memory fallback becomes the system of record.
func (s *Service) writeMeta(ctx context.Context, meta Meta) Meta {
	next := s.sanitizeMeta(meta)

	store := s.meta
	if s.metaDegraded {
		store = s.fallbackMeta
	}
	if err := store.WriteMeta(ctx, next); err != nil {
		if store != s.fallbackMeta {
			s.log.Warn().Err(err).Msg("meta store write failed, degrading to memory")
			s.metaDegraded = true
		}
		_ = s.fallbackMeta.WriteMeta(ctx, next)
	}
	return next
}

func (s *Service) writePath(ctx context.Context, dayID string, fc *geojson.FeatureCollection) {
	// Always capture in memory first so the overlay survives a failed
	// persistent write within this process.
	_ = s.fallbackPaths.WritePath(ctx, dayID, fc)

	store := s.paths
	if s.pathsDegraded || store == s.fallbackPaths {
		return
	}
	if err := store.WritePath(ctx, dayID, fc); err != nil {
		s.log.Warn().Err(err).Str("day_id", dayID).Msg("path store write failed, degrading to memory")
		s.pathsDegraded = true
	}
}

// sanitizeMeta repairs an arbitrary metadata record: uploaded days are
// normalized and sorted, ids colliding with fixed days are dropped, and the
// active pointer is forced onto a known day.
func (s *Service) sanitizeMeta(meta Meta) Meta {
	out := Meta{Version: MetaVersion, UploadedDays: []UploadedDay{}}

	for _, day := range meta.UploadedDays {
		clean, ok := s.normalizeUploadedDay(day)
		if !ok {
			continue
		}
		out.UploadedDays = append(out.UploadedDays, clean)
	}
	sortUploadedDays(out.UploadedDays)

	requested := strings.TrimSpace(meta.ActiveDayID)
	if s.knownDayID(out, requested) {
		out.ActiveDayID = requested
	} else if s.knownDayID(out, DefaultActiveDayID) {
		out.ActiveDayID = DefaultActiveDayID
	} else if len(s.fixedDays) > 0 {
		out.ActiveDayID = s.fixedDays[0].ID
	} else {
		out.ActiveDayID = DefaultActiveDayID
	}
	return out
}

func (s *Service) normalizeUploadedDay(day UploadedDay) (UploadedDay, bool) {
	id := strings.TrimSpace(day.ID)
	if id == "" || s.IsFixedDay(id) {
		return UploadedDay{}, false
	}

	date := strings.TrimSpace(day.Date)
	if !trip.IsISODate(date) {
		date = ""
	}
	title := strings.TrimSpace(day.Title)
	if title == "" {
		if date != "" {
			title = "Day " + date
		} else {
			title = "Uploaded Day"
		}
	}

	now := s.now().UTC().Format(time.RFC3339)
	createdAt := strings.TrimSpace(day.CreatedAt)
	if createdAt == "" {
		createdAt = now
	}
	updatedAt := strings.TrimSpace(day.UpdatedAt)
	if updatedAt == "" {
		updatedAt = now
	}

	return UploadedDay{
		ID:         id,
		Title:      title,
		Date:       date,
		Kind:       KindUploaded,
		SourceFile: strings.TrimSpace(day.SourceFile),
		HasPath:    day.HasPath,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, true
}

func (s *Service) knownDayID(meta Meta, id string) bool {
	if id == "" {
		return false
	}
	if s.IsFixedDay(id) {
		return true
	}
	for _, day := range meta.UploadedDays {
		if day.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) tabs(meta Meta) []Day {
	out := make([]Day, 0, len(s.fixedDays)+len(meta.UploadedDays))
	for _, day := range s.fixedDays {
		out = append(out, Day{
			ID:    day.ID,
			Title: day.Title,
			Date:  day.Date,
			Kind:  KindFixed,
			Href:  day.Href,
		})
	}
	for _, day := range meta.UploadedDays {
		out = append(out, Day{
			ID:        day.ID,
			Title:     day.Title,
			Date:      day.Date,
			Kind:      KindUploaded,
			Href:      dayHref(day.ID),
			HasPath:   day.HasPath,
			CreatedAt: day.CreatedAt,
			UpdatedAt: day.UpdatedAt,
		})
	}
	return out
}

// buildUploadedDayID picks a fresh id: the caller's request if unused, then
// day-<date>, then a slugged title with a numeric suffix until unique.
func (s *Service) buildUploadedDayID(meta Meta, requestedID, date, title string) string {
	used := make(map[string]bool)
	for _, day := range s.fixedDays {
		used[day.ID] = true
	}
	for _, day := range meta.UploadedDays {
		used[day.ID] = true
	}

	if requestedID != "" && !used[requestedID] {
		return requestedID
	}

	base := "day"
	if trip.IsISODate(date) {
		base = "day-" + date
		if !used[base] {
			return base
		}
	}

	if title == "" {
		title = "uploaded"
	}
	stem := base + "-" + slugify(title)
	candidate := stem
	for idx := 2; used[candidate]; idx++ {
		candidate = fmt.Sprintf("%s-%d", stem, idx)
	}
	return candidate
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(value string) string {
	slug := slugRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "day"
	}
	return slug
}

func normalizeSaveOptions(opts SaveOptions) SaveOptions {
	out := SaveOptions{
		Title:      strings.TrimSpace(opts.Title),
		Date:       strings.TrimSpace(opts.Date),
		DayID:      strings.TrimSpace(opts.DayID),
		SourceFile: strings.TrimSpace(opts.SourceFile),
	}
	if !trip.IsISODate(out.Date) {
		out.Date = ""
	}
	return out
}

func sortUploadedDays(days []UploadedDay) {
	sort.SliceStable(days, func(i, j int) bool {
		if days[i].Date != days[j].Date {
			return days[i].Date > days[j].Date
		}
		return recency(days[i]) > recency(days[j])
	})
}

func recency(day UploadedDay) string {
	if day.UpdatedAt != "" {
		return day.UpdatedAt
	}
	return day.CreatedAt
}
