package requirement

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"wcagadvisor/internal/engine"
)

// ErrNotFound is returned when no requirement exists for the given key.
var ErrNotFound = errors.New("requirement not found")

// Update carries the editable fields of an idempotent status upsert: attempt
// an update by (requirement, aspect) and insert when no row was affected.
// This tolerates a requirement whose status sub-record is missing.
type Update struct {
	RequirementID         int    `json:"requirement_id"`
	AspectID              int    `json:"aspect_id"`
	Status                Status `json:"status"`
	SatisfactionCriterion string `json:"satisfaction_criterion"`
	Priority              int    `json:"priority"`
	ClarifiedWording      string `json:"clarified_wording"`
	RejectionReason       string `json:"rejection_reason"`
}

// Store persists requirement assignment rows and their status sub-records.
// Postgres-backed when a DSN is configured, in-memory otherwise. The joined
// per-project view is cached and invalidated on every write.
type Store struct {
	db *sql.DB

	mu          sync.RWMutex
	assignments map[int]assignment
	statuses    map[statusKey]statusRow
	nextID      int

	schemaOnce sync.Once
	schemaErr  error

	viewCache *lru.Cache[int, []Requirement]
}

type assignment struct {
	ID               int
	ProjectID        int
	AspectID         int
	RecommendationID int
	AssignedAt       time.Time
	ProbabilityLevel engine.ConfidenceLevel
}

type statusKey struct {
	RequirementID int
	AspectID      int
}

type statusRow struct {
	Status                Status
	Priority              int
	SatisfactionCriterion string
	ClarifiedWording      string
	RejectionReason       string
	ReviewedAt            *time.Time
	RejectedAt            *time.Time
	ModifiedAt            time.Time
}

func New() *Store {
	return &Store{
		assignments: make(map[int]assignment),
		statuses:    make(map[statusKey]statusRow),
		nextID:      1,
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[int, []Requirement](256)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, viewCache: cache}, nil
}

// Find returns the requirement id for a (project, aspect, recommendation)
// triple, if one was already created.
func (s *Store) Find(ctx context.Context, projectID, aspectID, recommendationID int) (int, bool, error) {
	if s.db != nil {
		return s.findDB(ctx, projectID, aspectID, recommendationID)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments {
		if a.ProjectID == projectID && a.AspectID == aspectID && a.RecommendationID == recommendationID {
			return a.ID, true, nil
		}
	}
	return 0, false, nil
}

// Insert creates the assignment row and its status sub-record in the given
// initial status, stamping the assignment date.
func (s *Store) Insert(ctx context.Context, projectID, aspectID, recommendationID int, prob engine.ConfidenceLevel, status Status) (int, error) {
	if s.db != nil {
		id, err := s.insertDB(ctx, projectID, aspectID, recommendationID, prob, status)
		if err == nil {
			s.invalidate(projectID)
		}
		return id, err
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.assignments[id] = assignment{
		ID:               id,
		ProjectID:        projectID,
		AspectID:         aspectID,
		RecommendationID: recommendationID,
		AssignedAt:       now,
		ProbabilityLevel: prob,
	}
	var r Requirement
	applyStatus(&r, status, now)
	s.statuses[statusKey{RequirementID: id, AspectID: aspectID}] = statusRow{
		Status:     r.Status,
		ReviewedAt: r.ReviewedAt,
		RejectedAt: r.RejectedAt,
		ModifiedAt: r.ModifiedAt,
	}
	return id, nil
}

// SetStatus transitions an existing requirement, creating the status
// sub-record first if it is missing. Editable fields are left untouched.
func (s *Store) SetStatus(ctx context.Context, requirementID, aspectID int, status Status) error {
	if s.db != nil {
		err := s.setStatusDB(ctx, requirementID, aspectID, status)
		if err == nil {
			s.invalidateByRequirement(ctx, requirementID)
		}
		return err
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[requirementID]; !ok {
		return ErrNotFound
	}
	key := statusKey{RequirementID: requirementID, AspectID: aspectID}
	row := s.statuses[key]
	var r Requirement
	r.ReviewedAt = row.ReviewedAt
	r.RejectedAt = row.RejectedAt
	applyStatus(&r, status, now)
	row.Status = r.Status
	row.ReviewedAt = r.ReviewedAt
	row.RejectedAt = r.RejectedAt
	row.ModifiedAt = r.ModifiedAt
	s.statuses[key] = row
	return nil
}

// Upsert applies an edit to the status sub-record by (requirement, aspect);
// when no row is affected a new one is inserted with the same fields.
// Returns whether an insert happened.
func (s *Store) Upsert(ctx context.Context, u Update) (bool, error) {
	if s.db != nil {
		inserted, err := s.upsertDB(ctx, u)
		if err == nil {
			s.invalidateByRequirement(ctx, u.RequirementID)
		}
		return inserted, err
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statusKey{RequirementID: u.RequirementID, AspectID: u.AspectID}
	_, existed := s.statuses[key]
	var r Requirement
	applyStatus(&r, u.Status, now)
	s.statuses[key] = statusRow{
		Status:                r.Status,
		Priority:              u.Priority,
		SatisfactionCriterion: u.SatisfactionCriterion,
		ClarifiedWording:      u.ClarifiedWording,
		RejectionReason:       u.RejectionReason,
		ReviewedAt:            r.ReviewedAt,
		RejectedAt:            r.RejectedAt,
		ModifiedAt:            r.ModifiedAt,
	}
	return !existed, nil
}

// ListByProject returns the joined requirement view for a project, newest
// assignment first within each aspect. Only requirements that have a status
// sub-record appear, mirroring the source view.
func (s *Store) ListByProject(ctx context.Context, projectID int) ([]Requirement, error) {
	if s.db != nil {
		if cached, ok := s.viewCache.Get(projectID); ok {
			return cached, nil
		}
		out, err := s.listByProjectDB(ctx, projectID)
		if err != nil {
			return nil, err
		}
		s.viewCache.Add(projectID, out)
		return out, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Requirement, 0, 16)
	for _, a := range s.assignments {
		if a.ProjectID != projectID {
			continue
		}
		row, ok := s.statuses[statusKey{RequirementID: a.ID, AspectID: a.AspectID}]
		if !ok {
			continue
		}
		out = append(out, joinRows(a, row))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AspectID != out[j].AspectID {
			return out[i].AspectID < out[j].AspectID
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Get returns one requirement with its status sub-record.
func (s *Store) Get(ctx context.Context, requirementID int) (Requirement, error) {
	if s.db != nil {
		return s.getDB(ctx, requirementID)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[requirementID]
	if !ok {
		return Requirement{}, ErrNotFound
	}
	row := s.statuses[statusKey{RequirementID: a.ID, AspectID: a.AspectID}]
	return joinRows(a, row), nil
}

// Delete removes the assignment row and any status sub-records.
func (s *Store) Delete(ctx context.Context, requirementID int) error {
	if s.db != nil {
		err := s.deleteDB(ctx, requirementID)
		if err == nil {
			s.viewCache.Purge()
		}
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[requirementID]
	if !ok {
		return ErrNotFound
	}
	delete(s.assignments, requirementID)
	delete(s.statuses, statusKey{RequirementID: requirementID, AspectID: a.AspectID})
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) invalidate(projectID int) {
	if s.viewCache != nil {
		s.viewCache.Remove(projectID)
	}
}

func (s *Store) invalidateByRequirement(ctx context.Context, requirementID int) {
	if s.viewCache == nil {
		return
	}
	if r, err := s.getDB(ctx, requirementID); err == nil {
		s.viewCache.Remove(r.ProjectID)
		return
	}
	s.viewCache.Purge()
}

func joinRows(a assignment, row statusRow) Requirement {
	return Requirement{
		ID:                    a.ID,
		ProjectID:             a.ProjectID,
		AspectID:              a.AspectID,
		RecommendationID:      a.RecommendationID,
		AssignedAt:            a.AssignedAt,
		ProbabilityLevel:      a.ProbabilityLevel,
		Status:                row.Status,
		Priority:              row.Priority,
		SatisfactionCriterion: row.SatisfactionCriterion,
		ClarifiedWording:      row.ClarifiedWording,
		RejectionReason:       row.RejectionReason,
		ReviewedAt:            row.ReviewedAt,
		RejectedAt:            row.RejectedAt,
		ModifiedAt:            row.ModifiedAt,
	}
}
