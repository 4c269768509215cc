package requirement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wcagadvisor/internal/catalog"
	"wcagadvisor/internal/engine"
)

func parseLevelColumn(raw string) catalog.Level {
	if raw == "" {
		return catalog.LevelNone
	}
	return catalog.ParseLevel(raw)
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS requirements (
  id SERIAL PRIMARY KEY,
  project_id INTEGER NOT NULL,
  aspect_id INTEGER NOT NULL,
  recommendation_id INTEGER NOT NULL,
  assigned_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  probability_level TEXT NOT NULL DEFAULT '',
  UNIQUE (project_id, aspect_id, recommendation_id)
);
CREATE INDEX IF NOT EXISTS idx_requirements_project_id ON requirements (project_id);

CREATE TABLE IF NOT EXISTS requirement_statuses (
  requirement_id INTEGER NOT NULL,
  aspect_id INTEGER NOT NULL,
  status TEXT NOT NULL,
  priority INTEGER NOT NULL DEFAULT 0,
  satisfaction_criterion TEXT NOT NULL DEFAULT '',
  clarified_wording TEXT NOT NULL DEFAULT '',
  rejection_reason TEXT NOT NULL DEFAULT '',
  reviewed_at TIMESTAMP WITH TIME ZONE,
  rejected_at TIMESTAMP WITH TIME ZONE,
  modified_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
  PRIMARY KEY (requirement_id, aspect_id)
);
`)
	})
	return s.schemaErr
}

func (s *Store) findDB(ctx context.Context, projectID, aspectID, recommendationID int) (int, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, false, err
	}
	var id int
	err := s.db.QueryRowContext(ctx, `
SELECT id FROM requirements
WHERE project_id = $1 AND aspect_id = $2 AND recommendation_id = $3
LIMIT 1`, projectID, aspectID, recommendationID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *Store) insertDB(ctx context.Context, projectID, aspectID, recommendationID int, prob engine.ConfidenceLevel, status Status) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	var id int
	err = tx.QueryRowContext(ctx, `
INSERT INTO requirements (project_id, aspect_id, recommendation_id, assigned_at, probability_level)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		projectID, aspectID, recommendationID, now, string(prob)).Scan(&id)
	if err != nil {
		return 0, err
	}

	var r Requirement
	applyStatus(&r, status, now)
	_, err = tx.ExecContext(ctx, `
INSERT INTO requirement_statuses (requirement_id, aspect_id, status, reviewed_at, rejected_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6)`,
		id, aspectID, string(r.Status), r.ReviewedAt, r.RejectedAt, r.ModifiedAt)
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func (s *Store) setStatusDB(ctx context.Context, requirementID, aspectID int, status Status) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	var r Requirement
	applyStatus(&r, status, time.Now())

	// Create the status sub-record when it is missing, then apply the
	// transition; editable fields stay as they were.
	_, err := s.db.ExecContext(ctx, `
INSERT INTO requirement_statuses (requirement_id, aspect_id, status, reviewed_at, rejected_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (requirement_id, aspect_id)
DO UPDATE SET status = EXCLUDED.status,
  reviewed_at = EXCLUDED.reviewed_at,
  rejected_at = EXCLUDED.rejected_at,
  modified_at = EXCLUDED.modified_at`,
		requirementID, aspectID, string(r.Status), r.ReviewedAt, r.RejectedAt, r.ModifiedAt)
	return err
}

func (s *Store) upsertDB(ctx context.Context, u Update) (bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return false, err
	}
	var r Requirement
	applyStatus(&r, u.Status, time.Now())

	res, err := s.db.ExecContext(ctx, `
UPDATE requirement_statuses
SET status = $3,
  priority = $4,
  satisfaction_criterion = $5,
  clarified_wording = $6,
  rejection_reason = $7,
  reviewed_at = $8,
  rejected_at = $9,
  modified_at = $10
WHERE requirement_id = $1 AND aspect_id = $2`,
		u.RequirementID, u.AspectID, string(r.Status), u.Priority,
		u.SatisfactionCriterion, u.ClarifiedWording, u.RejectionReason,
		r.ReviewedAt, r.RejectedAt, r.ModifiedAt)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO requirement_statuses (
  requirement_id, aspect_id, status, priority,
  satisfaction_criterion, clarified_wording, rejection_reason,
  reviewed_at, rejected_at, modified_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.RequirementID, u.AspectID, string(r.Status), u.Priority,
		u.SatisfactionCriterion, u.ClarifiedWording, u.RejectionReason,
		r.ReviewedAt, r.RejectedAt, r.ModifiedAt)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) listByProjectDB(ctx context.Context, projectID int) ([]Requirement, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT req.id, req.project_id, req.aspect_id, req.recommendation_id,
       req.assigned_at, req.probability_level,
       st.status, st.priority, st.satisfaction_criterion, st.clarified_wording,
       st.rejection_reason, st.reviewed_at, st.rejected_at, st.modified_at,
       COALESCE(a.code, ''), COALESCE(a.name, ''),
       COALESCE(r.formulation, ''), COALESCE(r.goal, ''),
       COALESCE(r.level, ''), COALESCE(r.universal, FALSE)
FROM requirement_statuses st
INNER JOIN requirements req
  ON req.id = st.requirement_id AND req.aspect_id = st.aspect_id
LEFT JOIN aspects a ON a.id = req.aspect_id
LEFT JOIN recommendations r ON r.id = req.recommendation_id
WHERE req.project_id = $1
ORDER BY req.aspect_id, req.id DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Requirement, 0, 32)
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) getDB(ctx context.Context, requirementID int) (Requirement, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Requirement{}, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT req.id, req.project_id, req.aspect_id, req.recommendation_id,
       req.assigned_at, req.probability_level,
       st.status, st.priority, st.satisfaction_criterion, st.clarified_wording,
       st.rejection_reason, st.reviewed_at, st.rejected_at, st.modified_at,
       '', '', '', '', '', FALSE
FROM requirements req
INNER JOIN requirement_statuses st
  ON st.requirement_id = req.id AND st.aspect_id = req.aspect_id
WHERE req.id = $1`, requirementID)
	r, err := scanRequirement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Requirement{}, ErrNotFound
	}
	return r, err
}

func (s *Store) deleteDB(ctx context.Context, requirementID int) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM requirement_statuses WHERE requirement_id = $1`, requirementID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM requirements WHERE id = $1`, requirementID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequirement(row rowScanner) (Requirement, error) {
	var (
		r          Requirement
		prob       string
		status     string
		level      string
		reviewedAt sql.NullTime
		rejectedAt sql.NullTime
	)
	err := row.Scan(&r.ID, &r.ProjectID, &r.AspectID, &r.RecommendationID,
		&r.AssignedAt, &prob,
		&status, &r.Priority, &r.SatisfactionCriterion, &r.ClarifiedWording,
		&r.RejectionReason, &reviewedAt, &rejectedAt, &r.ModifiedAt,
		&r.AspectCode, &r.AspectName,
		&r.Formulation, &r.Goal, &level, &r.Universal)
	if err != nil {
		return Requirement{}, err
	}
	r.ProbabilityLevel = engine.ConfidenceLevel(prob)
	r.Status = Status(status)
	if reviewedAt.Valid {
		t := reviewedAt.Time
		r.ReviewedAt = &t
	}
	if rejectedAt.Valid {
		t := rejectedAt.Time
		r.RejectedAt = &t
	}
	r.Level = parseLevelColumn(level)
	return r, nil
}
