package catalog

import (
	"context"
	"database/sql"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS criteria (
  id SERIAL PRIMARY KEY,
  question TEXT NOT NULL,
  explanation TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS possible_values (
  id SERIAL PRIMARY KEY,
  criterion_id INTEGER NOT NULL REFERENCES criteria (id),
  label TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_possible_values_criterion_id ON possible_values (criterion_id);

CREATE TABLE IF NOT EXISTS recommendations (
  id SERIAL PRIMARY KEY,
  formulation TEXT NOT NULL,
  goal TEXT NOT NULL DEFAULT '',
  universal BOOLEAN NOT NULL DEFAULT FALSE,
  level TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assignment_rules (
  id SERIAL PRIMARY KEY,
  recommendation_id INTEGER NOT NULL REFERENCES recommendations (id),
  value_id INTEGER NOT NULL REFERENCES possible_values (id),
  v1 DOUBLE PRECISION NOT NULL DEFAULT 0,
  v2 DOUBLE PRECISION NOT NULL DEFAULT 0,
  v3 DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_assignment_rules_recommendation_id ON assignment_rules (recommendation_id);
`)
	})
	return s.schemaErr
}

// criteriaDB groups the criterion/value join into the nested shape in one
// aggregation pass; the row order keeps values attached to the right parent.
func (s *Store) criteriaDB(ctx context.Context) ([]Criterion, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT c.id, c.question, c.explanation, pv.id, pv.label
FROM criteria c
LEFT JOIN possible_values pv ON pv.criterion_id = c.id
ORDER BY c.id, pv.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Criterion, 0, 32)
	index := make(map[int]int)
	for rows.Next() {
		var (
			c       Criterion
			valueID sql.NullInt64
			label   sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Question, &c.Explanation, &valueID, &label); err != nil {
			return nil, err
		}
		i, ok := index[c.ID]
		if !ok {
			i = len(out)
			index[c.ID] = i
			out = append(out, c)
		}
		if valueID.Valid {
			out[i].Values = append(out[i].Values, PossibleValue{
				ID:          int(valueID.Int64),
				CriterionID: c.ID,
				Label:       label.String,
			})
		}
	}
	return out, rows.Err()
}

func (s *Store) recommendationsDB(ctx context.Context) ([]Recommendation, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.formulation, r.goal, r.universal, r.level,
       pv.id, pv.criterion_id, pv.label,
       ar.v1, ar.v2, ar.v3
FROM recommendations r
LEFT JOIN assignment_rules ar ON ar.recommendation_id = r.id
LEFT JOIN possible_values pv ON pv.id = ar.value_id
ORDER BY r.id, ar.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Recommendation, 0, 64)
	index := make(map[int]int)
	for rows.Next() {
		var (
			rec         Recommendation
			level       string
			valueID     sql.NullInt64
			criterionID sql.NullInt64
			label       sql.NullString
			v1, v2, v3  sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Formulation, &rec.Goal, &rec.Universal, &level,
			&valueID, &criterionID, &label, &v1, &v2, &v3); err != nil {
			return nil, err
		}
		rec.Level = ParseLevel(level)
		i, ok := index[rec.ID]
		if !ok {
			i = len(out)
			index[rec.ID] = i
			out = append(out, rec)
		}
		if valueID.Valid && criterionID.Valid {
			out[i].Rules = append(out[i].Rules, AssignmentRule{
				CriterionID: int(criterionID.Int64),
				ValueID:     int(valueID.Int64),
				Expected:    label.String,
				V1:          v1.Float64,
				V2:          v2.Float64,
				V3:          v3.Float64,
			})
		}
	}
	return out, rows.Err()
}
