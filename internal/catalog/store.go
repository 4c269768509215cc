package catalog

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store serves the immutable criteria and recommendation catalog. It is
// backed by Postgres when a DSN is configured and by a JSON seed file
// otherwise.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	loadErr  error
	mu       sync.RWMutex
	criteria []Criterion
	recs     []Recommendation

	schemaOnce sync.Once
	schemaErr  error
}

func New(path string) *Store {
	return &Store{path: path}
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

// NewMemory returns a store pre-seeded with in-memory catalog data.
func NewMemory(criteria []Criterion, recs []Recommendation) *Store {
	s := &Store{criteria: criteria, recs: recs}
	s.loadOnce.Do(func() {})
	return s
}

// Criteria returns the ordered criteria list, each with its possible values.
func (s *Store) Criteria(ctx context.Context) ([]Criterion, error) {
	if s.db != nil {
		return s.criteriaDB(ctx)
	}
	if err := s.ensureLoadedFile(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria, nil
}

// Recommendations returns the ordered recommendation list, each with its
// assignment rules and decoded universal flag.
func (s *Store) Recommendations(ctx context.Context) ([]Recommendation, error) {
	if s.db != nil {
		return s.recommendationsDB(ctx)
	}
	if err := s.ensureLoadedFile(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recs, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
