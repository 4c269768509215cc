package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wcagadvisor/internal/catalog"
)

func TestRuleProbabilityLinearCombination(t *testing.T) {
	assert.InDelta(t, 1.0, RuleProbability(catalog.AssignmentRule{V1: 1, V2: 1, V3: 1}), 1e-9)
	assert.InDelta(t, 0.0, RuleProbability(catalog.AssignmentRule{}), 1e-9)
	assert.InDelta(t, 0.5, RuleProbability(catalog.AssignmentRule{V1: 1}), 1e-9)
	assert.InDelta(t, 0.3, RuleProbability(catalog.AssignmentRule{V2: 1}), 1e-9)
	assert.InDelta(t, 0.2, RuleProbability(catalog.AssignmentRule{V3: 1}), 1e-9)
	assert.InDelta(t, 0.8, RuleProbability(catalog.AssignmentRule{V1: 1, V2: 1}), 1e-9)
}

func TestRuleProbabilityMonotonic(t *testing.T) {
	base := RuleProbability(catalog.AssignmentRule{V1: 0.2, V2: 0.2, V3: 0.2})
	assert.Greater(t, RuleProbability(catalog.AssignmentRule{V1: 0.4, V2: 0.2, V3: 0.2}), base)
	assert.Greater(t, RuleProbability(catalog.AssignmentRule{V1: 0.2, V2: 0.4, V3: 0.2}), base)
	assert.Greater(t, RuleProbability(catalog.AssignmentRule{V1: 0.2, V2: 0.2, V3: 0.4}), base)
}

func TestLevelForBoundaries(t *testing.T) {
	cases := []struct {
		p    float64
		want ConfidenceLevel
		ok   bool
	}{
		{1.00, ConfidenceHigh, true},
		{0.70, ConfidenceHigh, true},
		{0.69, ConfidenceMedium, true},
		{0.30, ConfidenceMedium, true},
		{0.29, ConfidenceLow, true},
		{0.00, ConfidenceLow, true},
		{1.01, "", false},
		{-0.01, "", false},
	}
	for _, tc := range cases {
		got, ok := LevelFor(tc.p)
		assert.Equal(t, tc.ok, ok, "p=%v", tc.p)
		assert.Equal(t, tc.want, got, "p=%v", tc.p)
	}
}
