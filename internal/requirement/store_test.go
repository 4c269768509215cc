package requirement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wcagadvisor/internal/engine"
)

func TestApplyStatusTimestamps(t *testing.T) {
	now := time.Now()

	var r Requirement
	applyStatus(&r, StatusReviewed, now)
	require.NotNil(t, r.ReviewedAt)
	assert.Nil(t, r.RejectedAt)
	assert.Equal(t, now, r.ModifiedAt)

	applyStatus(&r, StatusCancelled, now.Add(time.Second))
	require.NotNil(t, r.RejectedAt)
	assert.Nil(t, r.ReviewedAt, "moving to Cancelled clears the approval stamp")

	applyStatus(&r, StatusToReview, now.Add(2*time.Second))
	assert.Nil(t, r.ReviewedAt)
	assert.Nil(t, r.RejectedAt)
}

func TestParseStatusFallsBackToToReview(t *testing.T) {
	assert.Equal(t, StatusReviewed, ParseStatus("Reviewed"))
	assert.Equal(t, StatusCancelled, ParseStatus("Cancelled"))
	assert.Equal(t, StatusToReview, ParseStatus(""))
	assert.Equal(t, StatusToReview, ParseStatus("approved"))

	assert.True(t, ValidStatus("To review"))
	assert.False(t, ValidStatus("to review"))
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Insert(ctx, 1, 10, 100, engine.ConfidenceHigh, StatusToReview)
	require.NoError(t, err)

	got, found, err := s.Find(ctx, 1, 10, 100)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, got)

	_, found, err = s.Find(ctx, 1, 10, 101)
	require.NoError(t, err)
	assert.False(t, found)

	r, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusToReview, r.Status)
	assert.Equal(t, engine.ConfidenceHigh, r.ProbabilityLevel)
	assert.False(t, r.AssignedAt.IsZero())
}

func TestSetStatusPreservesEdits(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Insert(ctx, 1, 10, 100, engine.ConfidenceMedium, StatusToReview)
	require.NoError(t, err)

	_, err = s.Upsert(ctx, Update{
		RequirementID:         id,
		AspectID:              10,
		Status:                StatusToReview,
		SatisfactionCriterion: "axe-core scan passes",
		Priority:              2,
	})
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, id, 10, StatusReviewed))

	r, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusReviewed, r.Status)
	assert.Equal(t, "axe-core scan passes", r.SatisfactionCriterion)
	assert.Equal(t, 2, r.Priority)
	assert.NotNil(t, r.ReviewedAt)
}

func TestSetStatusUnknownRequirement(t *testing.T) {
	s := New()
	err := s.SetStatus(context.Background(), 42, 10, StatusReviewed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertInsertsMissingStatusRow(t *testing.T) {
	ctx := context.Background()
	s := New()

	inserted, err := s.Upsert(ctx, Update{RequirementID: 7, AspectID: 3, Status: StatusCancelled, RejectionReason: "duplicate"})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.Upsert(ctx, Update{RequirementID: 7, AspectID: 3, Status: StatusReviewed})
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestListByProjectOrdering(t *testing.T) {
	ctx := context.Background()
	s := New()

	idA1, err := s.Insert(ctx, 1, 20, 100, engine.ConfidenceLow, StatusToReview)
	require.NoError(t, err)
	idA2, err := s.Insert(ctx, 1, 20, 101, engine.ConfidenceLow, StatusToReview)
	require.NoError(t, err)
	idB, err := s.Insert(ctx, 1, 10, 102, engine.ConfidenceLow, StatusToReview)
	require.NoError(t, err)
	_, err = s.Insert(ctx, 2, 10, 102, engine.ConfidenceLow, StatusToReview)
	require.NoError(t, err)

	list, err := s.ListByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Grouped by aspect, newest assignment first within each.
	assert.Equal(t, []int{idB, idA2, idA1}, []int{list[0].ID, list[1].ID, list[2].ID})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Insert(ctx, 1, 10, 100, engine.ConfidenceLow, StatusToReview)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "10:100", Key(10, 100))
	r := Requirement{AspectID: 3, RecommendationID: 44}
	assert.Equal(t, "3:44", r.Key())
}
