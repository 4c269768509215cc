package requirement

import (
	"strconv"
	"strings"
	"time"

	"wcagadvisor/internal/catalog"
	"wcagadvisor/internal/engine"
)

// Status is the review state of a requirement. A recommendation with no
// requirement row has no status at all; once confirmed it is always in
// exactly one of these three states.
type Status string

const (
	StatusToReview  Status = "To review"
	StatusReviewed  Status = "Reviewed"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus normalizes a raw status string; anything unrecognized falls
// back to "To review", matching the confirm endpoint of the source system.
func ParseStatus(raw string) Status {
	switch strings.TrimSpace(raw) {
	case string(StatusReviewed):
		return StatusReviewed
	case string(StatusCancelled):
		return StatusCancelled
	default:
		return StatusToReview
	}
}

// Valid reports whether raw names one of the three states exactly.
func ValidStatus(raw string) bool {
	switch Status(strings.TrimSpace(raw)) {
	case StatusToReview, StatusReviewed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Requirement is the persisted, reviewable outcome of confirming a
// recommendation for a use-case aspect. At most one exists per
// (aspect, recommendation) pair; re-confirmation updates it in place.
type Requirement struct {
	ID               int                    `json:"id"`
	ProjectID        int                    `json:"project_id"`
	AspectID         int                    `json:"aspect_id"`
	RecommendationID int                    `json:"recommendation_id"`
	AssignedAt       time.Time              `json:"assigned_at"`
	ProbabilityLevel engine.ConfidenceLevel `json:"probability_level,omitempty"`

	Status                Status     `json:"status"`
	Priority              int        `json:"priority,omitempty"`
	SatisfactionCriterion string     `json:"satisfaction_criterion,omitempty"`
	ClarifiedWording      string     `json:"clarified_wording,omitempty"`
	RejectionReason       string     `json:"rejection_reason,omitempty"`
	ReviewedAt            *time.Time `json:"reviewed_at,omitempty"`
	RejectedAt            *time.Time `json:"rejected_at,omitempty"`
	ModifiedAt            time.Time  `json:"modified_at"`

	// Denormalized display fields from the aspect and recommendation.
	AspectCode  string        `json:"aspect_code,omitempty"`
	AspectName  string        `json:"aspect_name,omitempty"`
	Formulation string        `json:"formulation,omitempty"`
	Goal        string        `json:"goal,omitempty"`
	Level       catalog.Level `json:"level,omitempty"`
	Universal   bool          `json:"universal,omitempty"`
}

// Key identifies a requirement for status display: "aspectID:recommendationID".
func (r Requirement) Key() string {
	return Key(r.AspectID, r.RecommendationID)
}

func Key(aspectID, recommendationID int) string {
	return strconv.Itoa(aspectID) + ":" + strconv.Itoa(recommendationID)
}

// applyStatus carries the transition's timestamp rules: Reviewed stamps the
// approval time and clears any rejection, Cancelled stamps the rejection time
// and clears any approval, To review clears both.
func applyStatus(r *Requirement, status Status, now time.Time) {
	r.Status = status
	r.ModifiedAt = now
	switch status {
	case StatusReviewed:
		t := now
		r.ReviewedAt = &t
		r.RejectedAt = nil
	case StatusCancelled:
		t := now
		r.RejectedAt = &t
		r.ReviewedAt = nil
	case StatusToReview:
		r.ReviewedAt = nil
		r.RejectedAt = nil
	}
}
