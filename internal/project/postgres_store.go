package project

import (
	"context"
	"database/sql"
	"errors"

	"wcagadvisor/internal/catalog"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS projects (
  id SERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  target_level TEXT NOT NULL,
  saved BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS aspects (
  id SERIAL PRIMARY KEY,
  project_id INTEGER NOT NULL REFERENCES projects (id),
  code TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_aspects_project_id ON aspects (project_id);

CREATE TABLE IF NOT EXISTS aspect_answers (
  aspect_id INTEGER NOT NULL REFERENCES aspects (id),
  value_id INTEGER NOT NULL,
  PRIMARY KEY (aspect_id, value_id)
);
`)
	})
	return s.schemaErr
}

func (s *Store) createProjectDB(ctx context.Context, p Project) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}
	var id int
	err := s.db.QueryRowContext(ctx, `
INSERT INTO projects (name, description, created_at, target_level, saved)
VALUES ($1, $2, $3, $4, FALSE)
RETURNING id`,
		p.Name, p.Description, p.CreatedAt, string(p.TargetLevel)).Scan(&id)
	return id, err
}

func (s *Store) getProjectDB(ctx context.Context, id int) (Project, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Project{}, err
	}
	var (
		p     Project
		level string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, description, created_at, target_level, saved
FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &level, &p.Saved)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, err
	}
	p.TargetLevel = catalog.ParseLevel(level)
	return p, nil
}

func (s *Store) markSavedDB(ctx context.Context, id int) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE projects SET saved = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) listSavedDB(ctx context.Context) ([]Project, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, description, created_at, target_level, saved
FROM projects WHERE saved = TRUE ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var (
			p     Project
			level string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &level, &p.Saved); err != nil {
			return nil, err
		}
		p.TargetLevel = catalog.ParseLevel(level)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) createAspectDB(ctx context.Context, a Aspect) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}
	var id int
	err := s.db.QueryRowContext(ctx, `
INSERT INTO aspects (project_id, code, name, description)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		a.ProjectID, a.Code, a.Name, a.Description).Scan(&id)
	return id, err
}

func (s *Store) getAspectDB(ctx context.Context, id int) (Aspect, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Aspect{}, err
	}
	var a Aspect
	err := s.db.QueryRowContext(ctx, `
SELECT id, project_id, code, name, description FROM aspects WHERE id = $1`, id).
		Scan(&a.ID, &a.ProjectID, &a.Code, &a.Name, &a.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return Aspect{}, ErrNotFound
	}
	return a, err
}

func (s *Store) replaceAnswersDB(ctx context.Context, aspectID int, valueIDs []int) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM aspect_answers WHERE aspect_id = $1`, aspectID); err != nil {
		return err
	}
	for _, valueID := range valueIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO aspect_answers (aspect_id, value_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING`, aspectID, valueID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) aspectsByProjectDB(ctx context.Context, projectID int) ([]AspectAnswers, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT a.id, a.project_id, a.code, a.name, a.description,
       pv.criterion_id, pv.label
FROM aspects a
LEFT JOIN aspect_answers aa ON aa.aspect_id = a.id
LEFT JOIN possible_values pv ON pv.id = aa.value_id
WHERE a.project_id = $1
ORDER BY a.id, pv.criterion_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AspectAnswers, 0, 8)
	index := make(map[int]int)
	for rows.Next() {
		var (
			a           Aspect
			criterionID sql.NullInt64
			label       sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Code, &a.Name, &a.Description, &criterionID, &label); err != nil {
			return nil, err
		}
		i, ok := index[a.ID]
		if !ok {
			i = len(out)
			index[a.ID] = i
			out = append(out, AspectAnswers{Aspect: a, Answers: make(map[int]string)})
		}
		if criterionID.Valid {
			out[i].Answers[int(criterionID.Int64)] = label.String
		}
	}
	return out, rows.Err()
}
