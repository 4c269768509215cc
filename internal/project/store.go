package project

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"wcagadvisor/internal/catalog"
)

// ErrNotFound is returned when a project or aspect does not exist.
var ErrNotFound = errors.New("not found")

// Store persists projects, their use-case aspects and the aspects' answer
// sets. Postgres-backed when a DSN is configured, in-memory otherwise.
type Store struct {
	db *sql.DB

	mu         sync.RWMutex
	projects   map[int]Project
	aspects    map[int]Aspect
	answers    map[int][]int // aspect id -> chosen possible-value ids
	labels     map[int]answerLabel
	nextProj   int
	nextAspect int

	schemaOnce sync.Once
	schemaErr  error
}

// answerLabel resolves a possible-value id for the in-memory backend the way
// the database join does for Postgres.
type answerLabel struct {
	criterionID int
	label       string
}

func New() *Store {
	return &Store{
		projects:   make(map[int]Project),
		aspects:    make(map[int]Aspect),
		answers:    make(map[int][]int),
		labels:     make(map[int]answerLabel),
		nextProj:   1,
		nextAspect: 1,
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
	return &Store{db: db}, nil
}

// SeedValues registers possible-value labels for the in-memory backend so
// answer views can resolve labels without a database join. No-op on Postgres.
func (s *Store) SeedValues(values []catalog.PossibleValue) {
	if s.db != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range values {
		s.labels[v.ID] = answerLabel{criterionID: v.CriterionID, label: v.Label}
	}
}

func (s *Store) CreateProject(ctx context.Context, p Project) (int, error) {
	if s.db != nil {
		return s.createProjectDB(ctx, p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextProj
	s.nextProj++
	s.projects[p.ID] = p
	return p.ID, nil
}

func (s *Store) GetProject(ctx context.Context, id int) (Project, error) {
	if s.db != nil {
		return s.getProjectDB(ctx, id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return p, nil
}

// MarkSaved flags the project so it appears in the saved-projects listing.
func (s *Store) MarkSaved(ctx context.Context, id int) error {
	if s.db != nil {
		return s.markSavedDB(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return ErrNotFound
	}
	p.Saved = true
	s.projects[id] = p
	return nil
}

func (s *Store) ListSaved(ctx context.Context) ([]Project, error) {
	if s.db != nil {
		return s.listSavedDB(ctx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		if p.Saved {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateAspect(ctx context.Context, a Aspect) (int, error) {
	if s.db != nil {
		return s.createAspectDB(ctx, a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[a.ProjectID]; !ok {
		return 0, ErrNotFound
	}
	a.ID = s.nextAspect
	s.nextAspect++
	s.aspects[a.ID] = a
	return a.ID, nil
}

func (s *Store) GetAspect(ctx context.Context, id int) (Aspect, error) {
	if s.db != nil {
		return s.getAspectDB(ctx, id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.aspects[id]
	if !ok {
		return Aspect{}, ErrNotFound
	}
	return a, nil
}

// ReplaceAnswers swaps the aspect's whole answer set for the given
// possible-value ids. An empty set clears all answers.
func (s *Store) ReplaceAnswers(ctx context.Context, aspectID int, valueIDs []int) error {
	if s.db != nil {
		return s.replaceAnswersDB(ctx, aspectID, valueIDs)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.aspects[aspectID]; !ok {
		return ErrNotFound
	}
	s.answers[aspectID] = append([]int(nil), valueIDs...)
	return nil
}

// AspectsByProject returns the project's aspects with their answer labels
// keyed by criterion id.
func (s *Store) AspectsByProject(ctx context.Context, projectID int) ([]AspectAnswers, error) {
	if s.db != nil {
		return s.aspectsByProjectDB(ctx, projectID)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AspectAnswers, 0, 8)
	for _, a := range s.aspects {
		if a.ProjectID != projectID {
			continue
		}
		view := AspectAnswers{Aspect: a, Answers: make(map[int]string)}
		for _, valueID := range s.answers[a.ID] {
			if l, ok := s.labels[valueID]; ok {
				view.Answers[l.criterionID] = l.label
			}
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
