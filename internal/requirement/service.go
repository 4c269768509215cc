package requirement

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"wcagadvisor/internal/engine"
)

// Service drives requirement lifecycle operations over the store and pushes
// a status event per transition.
type Service struct {
	store *Store
	hub   *Hub
}

func NewService(store *Store, hub *Hub) *Service {
	return &Service{store: store, hub: hub}
}

// ConfirmResult reports what Confirm did for one recommendation.
type ConfirmResult struct {
	RequirementID int    `json:"requirement_id"`
	Created       bool   `json:"created"`
	Status        Status `json:"status"`
}

// Confirm turns a recommendation into a requirement for an aspect, or
// re-stamps the existing one. The same (project, aspect, recommendation)
// triple always lands on the same row.
func (s *Service) Confirm(ctx context.Context, projectID, aspectID, recommendationID int, prob engine.ConfidenceLevel, status Status) (ConfirmResult, error) {
	id, found, err := s.store.Find(ctx, projectID, aspectID, recommendationID)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("confirm lookup: %w", err)
	}
	if found {
		if err := s.store.SetStatus(ctx, id, aspectID, status); err != nil {
			return ConfirmResult{}, fmt.Errorf("confirm update: %w", err)
		}
		s.publish(projectID, id, aspectID, status)
		return ConfirmResult{RequirementID: id, Created: false, Status: status}, nil
	}
	id, err = s.store.Insert(ctx, projectID, aspectID, recommendationID, prob, status)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("confirm insert: %w", err)
	}
	s.publish(projectID, id, aspectID, status)
	return ConfirmResult{RequirementID: id, Created: true, Status: status}, nil
}

// Update applies a review edit, inserting the status sub-record when it is
// missing. No event is published when the edited row cannot be resolved to
// a project; subscribers are keyed by project id.
func (s *Service) Update(ctx context.Context, u Update) error {
	if !ValidStatus(string(u.Status)) {
		return fmt.Errorf("update requirement %d: unknown status %q", u.RequirementID, u.Status)
	}
	if _, err := s.store.Upsert(ctx, u); err != nil {
		return fmt.Errorf("update requirement %d: %w", u.RequirementID, err)
	}
	if r, err := s.store.Get(ctx, u.RequirementID); err == nil {
		s.publish(r.ProjectID, u.RequirementID, u.AspectID, u.Status)
	}
	return nil
}

// BulkResult summarizes a project-wide transition.
type BulkResult struct {
	Transitioned int `json:"transitioned"`
	Skipped      int `json:"skipped"`
}

// Candidate is one classified recommendation eligible for a bulk transition.
type Candidate struct {
	AspectID         int
	RecommendationID int
	Probability      engine.ConfidenceLevel
}

// BulkApply confirms every candidate into target. Candidates with no
// requirement row yet get one inserted; existing rows are re-stamped unless
// already in the target status. Transitions run concurrently; the first
// failure aborts the batch and is returned whole.
func (s *Service) BulkApply(ctx context.Context, projectID int, candidates []Candidate, target Status) (BulkResult, error) {
	var res BulkResult
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, c := range candidates {
		id, found, err := s.store.Find(ctx, projectID, c.AspectID, c.RecommendationID)
		if err != nil {
			return BulkResult{}, fmt.Errorf("bulk %s: %w", target, err)
		}
		if found {
			r, err := s.store.Get(ctx, id)
			if err != nil {
				return BulkResult{}, fmt.Errorf("bulk %s: %w", target, err)
			}
			if r.Status == target {
				res.Skipped++
				continue
			}
		}
		res.Transitioned++
		g.Go(func() error {
			if found {
				if err := s.store.SetStatus(gctx, id, c.AspectID, target); err != nil {
					return fmt.Errorf("requirement %d: %w", id, err)
				}
				s.publish(projectID, id, c.AspectID, target)
				return nil
			}
			newID, err := s.store.Insert(gctx, projectID, c.AspectID, c.RecommendationID, c.Probability, target)
			if err != nil {
				return fmt.Errorf("recommendation %d: %w", c.RecommendationID, err)
			}
			s.publish(projectID, newID, c.AspectID, target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BulkResult{}, fmt.Errorf("bulk %s: %w", target, err)
	}
	return res, nil
}

// ConfirmAll confirms every candidate with the confirm default status, so
// recommendations never confirmed before land in "To review". CancelAll
// moves the whole candidate set to Cancelled.
func (s *Service) ConfirmAll(ctx context.Context, projectID int, candidates []Candidate) (BulkResult, error) {
	return s.BulkApply(ctx, projectID, candidates, StatusToReview)
}

func (s *Service) CancelAll(ctx context.Context, projectID int, candidates []Candidate) (BulkResult, error) {
	return s.BulkApply(ctx, projectID, candidates, StatusCancelled)
}

func (s *Service) ListByProject(ctx context.Context, projectID int) ([]Requirement, error) {
	return s.store.ListByProject(ctx, projectID)
}

func (s *Service) Get(ctx context.Context, requirementID int) (Requirement, error) {
	return s.store.Get(ctx, requirementID)
}

func (s *Service) Delete(ctx context.Context, requirementID int) error {
	return s.store.Delete(ctx, requirementID)
}

func (s *Service) publish(projectID, requirementID, aspectID int, status Status) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(Event{
		ProjectID:     projectID,
		RequirementID: requirementID,
		AspectID:      aspectID,
		Status:        status,
		At:            time.Now(),
	})
}
