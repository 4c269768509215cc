package requirement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wcagadvisor/internal/engine"
)

func TestConfirmIsIdempotentPerTriple(t *testing.T) {
	ctx := context.Background()
	svc := NewService(New(), NewHub())

	first, err := svc.Confirm(ctx, 1, 10, 100, engine.ConfidenceHigh, StatusToReview)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.Confirm(ctx, 1, 10, 100, engine.ConfidenceHigh, StatusReviewed)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.RequirementID, second.RequirementID)

	list, err := svc.ListByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusReviewed, list[0].Status)
	assert.NotNil(t, list[0].ReviewedAt)
}

func TestConfirmPublishesEvent(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()
	svc := NewService(New(), hub)

	events, cancel := hub.Subscribe(1)
	defer cancel()

	res, err := svc.Confirm(ctx, 1, 10, 100, engine.ConfidenceMedium, StatusToReview)
	require.NoError(t, err)

	ev := <-events
	assert.Equal(t, 1, ev.ProjectID)
	assert.Equal(t, res.RequirementID, ev.RequirementID)
	assert.Equal(t, StatusToReview, ev.Status)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(New(), nil)
	err := svc.Update(context.Background(), Update{RequirementID: 1, AspectID: 1, Status: "Approved"})
	assert.Error(t, err)
}

func TestUpdateEditsReviewFields(t *testing.T) {
	ctx := context.Background()
	svc := NewService(New(), nil)

	res, err := svc.Confirm(ctx, 1, 10, 100, engine.ConfidenceHigh, StatusToReview)
	require.NoError(t, err)

	err = svc.Update(ctx, Update{
		RequirementID:    res.RequirementID,
		AspectID:         10,
		Status:           StatusCancelled,
		RejectionReason:  "covered by component library",
		ClarifiedWording: "n/a",
		Priority:         1,
	})
	require.NoError(t, err)

	r, err := svc.Get(ctx, res.RequirementID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, r.Status)
	assert.Equal(t, "covered by component library", r.RejectionReason)
	assert.NotNil(t, r.RejectedAt)
	assert.Nil(t, r.ReviewedAt)
}

func TestUpdateForMissingAssignmentPublishesNothing(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()
	svc := NewService(New(), hub)

	events, cancel := hub.Subscribe(0)
	defer cancel()

	// The upsert creates the status row even though no assignment exists,
	// but no subscriber can be resolved for it.
	err := svc.Update(ctx, Update{RequirementID: 99, AspectID: 10, Status: StatusReviewed})
	require.NoError(t, err)
	assert.Len(t, events, 0)
}

func TestConfirmAllCreatesRowsForUnconfirmedCandidates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(New(), NewHub())

	candidates := []Candidate{
		{AspectID: 10, RecommendationID: 100, Probability: engine.ConfidenceHigh},
		{AspectID: 10, RecommendationID: 101, Probability: engine.ConfidenceMedium},
	}
	res, err := svc.ConfirmAll(ctx, 1, candidates)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Transitioned)
	assert.Equal(t, 0, res.Skipped)

	list, err := svc.ListByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, r := range list {
		assert.Equal(t, StatusToReview, r.Status)
	}

	// Rerunning skips everything already in the confirm default status.
	res, err = svc.ConfirmAll(ctx, 1, candidates)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Transitioned)
	assert.Equal(t, 2, res.Skipped)
}

func TestConfirmAllRestampsExistingRows(t *testing.T) {
	ctx := context.Background()
	svc := NewService(New(), nil)

	existing, err := svc.Confirm(ctx, 1, 10, 100, engine.ConfidenceHigh, StatusCancelled)
	require.NoError(t, err)

	res, err := svc.ConfirmAll(ctx, 1, []Candidate{
		{AspectID: 10, RecommendationID: 100, Probability: engine.ConfidenceHigh},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transitioned)

	r, err := svc.Get(ctx, existing.RequirementID)
	require.NoError(t, err)
	assert.Equal(t, StatusToReview, r.Status)
	assert.Nil(t, r.RejectedAt)
}

func TestCancelAllCancelsWholeCandidateSet(t *testing.T) {
	ctx := context.Background()
	svc := NewService(New(), nil)

	// One candidate already has a row, the other does not.
	_, err := svc.Confirm(ctx, 1, 10, 100, engine.ConfidenceHigh, StatusReviewed)
	require.NoError(t, err)

	res, err := svc.CancelAll(ctx, 1, []Candidate{
		{AspectID: 10, RecommendationID: 100, Probability: engine.ConfidenceHigh},
		{AspectID: 10, RecommendationID: 101, Probability: engine.ConfidenceMedium},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Transitioned)

	list, err := svc.ListByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, r := range list {
		assert.Equal(t, StatusCancelled, r.Status)
		assert.NotNil(t, r.RejectedAt)
		assert.Nil(t, r.ReviewedAt)
	}
}

func TestHubDropsEventsForSlowSubscribers(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe(1)
	defer cancel()

	for i := 0; i < 40; i++ {
		hub.Publish(Event{ProjectID: 1, RequirementID: i})
	}
	// The buffer holds 16; the rest were dropped without blocking.
	assert.Len(t, events, 16)
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe(1)
	cancel()
	hub.Publish(Event{ProjectID: 1, RequirementID: 1})
	assert.Len(t, events, 0)
}
