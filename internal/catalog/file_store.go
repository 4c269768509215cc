package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Seed file shapes. The universal marker and level arrive in whatever form
// the exporting tool produced; both are decoded here, once, and nowhere else.
type seedFile struct {
	Criteria        []seedCriterion      `json:"criteria"`
	Recommendations []seedRecommendation `json:"recommendations"`
}

type seedCriterion struct {
	ID          int         `json:"id"`
	Question    string      `json:"question"`
	Explanation string      `json:"explanation"`
	Values      []seedValue `json:"values"`
}

type seedValue struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type seedRecommendation struct {
	ID          int           `json:"id"`
	Formulation string        `json:"formulation"`
	Goal        string        `json:"goal"`
	Universal   UniversalFlag `json:"universal"`
	Level       string        `json:"level"`
	Rules       []seedRule    `json:"rules"`
}

type seedRule struct {
	CriterionID int     `json:"criterion_id"`
	ValueID     int     `json:"value_id"`
	Expected    string  `json:"expected"`
	V1          float64 `json:"v1"`
	V2          float64 `json:"v2"`
	V3          float64 `json:"v3"`
}

func (s *Store) ensureLoadedFile() error {
	s.loadOnce.Do(func() {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			s.loadErr = fmt.Errorf("read catalog seed: %w", err)
			return
		}
		var seed seedFile
		if err := json.Unmarshal(raw, &seed); err != nil {
			s.loadErr = fmt.Errorf("parse catalog seed: %w", err)
			return
		}

		criteria := make([]Criterion, 0, len(seed.Criteria))
		for _, sc := range seed.Criteria {
			c := Criterion{ID: sc.ID, Question: sc.Question, Explanation: sc.Explanation}
			for _, sv := range sc.Values {
				c.Values = append(c.Values, PossibleValue{ID: sv.ID, CriterionID: sc.ID, Label: sv.Label})
			}
			criteria = append(criteria, c)
		}

		recs := make([]Recommendation, 0, len(seed.Recommendations))
		for _, sr := range seed.Recommendations {
			rec := Recommendation{
				ID:          sr.ID,
				Formulation: sr.Formulation,
				Goal:        sr.Goal,
				Universal:   bool(sr.Universal),
				Level:       ParseLevel(sr.Level),
			}
			for _, rule := range sr.Rules {
				rec.Rules = append(rec.Rules, AssignmentRule(rule))
			}
			recs = append(recs, rec)
		}

		s.mu.Lock()
		s.criteria = criteria
		s.recs = recs
		s.mu.Unlock()
	})
	return s.loadErr
}
