package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wcagadvisor/internal/catalog"
)

func ruleFor(criterionID int, expected string, v1, v2, v3 float64) catalog.AssignmentRule {
	return catalog.AssignmentRule{CriterionID: criterionID, Expected: expected, V1: v1, V2: v2, V3: v3}
}

func TestClassifyKeyboardScenario(t *testing.T) {
	// Criterion 1: "keyboard operable?" answered YES, one rule expecting YES
	// with weights (1,1,0) -> probability 0.8 -> High.
	recs := []catalog.Recommendation{{
		ID:          1,
		Formulation: "2.1.1 Keyboard",
		Level:       catalog.LevelA,
		Rules:       []catalog.AssignmentRule{ruleFor(1, "Taip", 1, 1, 0)},
	}}

	got := Classify(map[int]Answer{1: AnswerYes}, recs, catalog.LevelAA)
	require.Len(t, got.High, 1)
	assert.Empty(t, got.Medium)
	assert.Empty(t, got.Low)
	assert.InDelta(t, 0.8, got.High[0].Probability, 1e-9)
	assert.Equal(t, ConfidenceHigh, got.High[0].Level)
}

func TestClassifyAllMaybeShortCircuit(t *testing.T) {
	recs := []catalog.Recommendation{
		{ID: 1, Formulation: "2.1.1 Keyboard", Level: catalog.LevelA,
			Rules: []catalog.AssignmentRule{ruleFor(1, "Taip", 1, 1, 0)}},
		{ID: 2, Formulation: "3.1.1 Language of Page", Level: catalog.LevelA,
			Rules: []catalog.AssignmentRule{ruleFor(2, "Ne", 1, 0, 0)}},
		{ID: 3, Formulation: "1.4.6 Contrast (Enhanced)", Level: catalog.LevelAAA,
			Rules: []catalog.AssignmentRule{ruleFor(3, "Taip", 1, 1, 1)}},
		// Universal recommendations stay out of the leveled buckets.
		{ID: 4, Formulation: "Provide an accessibility statement", Universal: true, Level: catalog.LevelOther},
	}

	got := Classify(map[int]Answer{1: AnswerMaybe, 2: AnswerMaybe}, recs, catalog.LevelAA)

	assert.Empty(t, got.High)
	assert.Empty(t, got.Medium)
	// Rule evaluation is skipped entirely; only level filtering applies,
	// so the AAA recommendation is out and the rest land in Low at 0.29.
	require.Len(t, got.Low, 2)
	for _, s := range got.Low {
		assert.InDelta(t, 0.29, s.Probability, 1e-9)
		assert.Equal(t, ConfidenceLow, s.Level)
	}
}

func TestClassifySingleMaybeAnswerFallsIntoLowNotScored(t *testing.T) {
	recs := []catalog.Recommendation{{
		ID:          1,
		Formulation: "2.1.1 Keyboard",
		Level:       catalog.LevelA,
		Rules:       []catalog.AssignmentRule{ruleFor(1, "Taip", 1, 1, 0)},
	}}

	got := Classify(map[int]Answer{1: AnswerMaybe}, recs, catalog.LevelAA)
	assert.Empty(t, got.High)
	require.Len(t, got.Low, 1)
	assert.InDelta(t, 0.29, got.Low[0].Probability, 1e-9)
}

func TestClassifyNoMatchingRuleExcludes(t *testing.T) {
	recs := []catalog.Recommendation{{
		ID:          1,
		Formulation: "2.1.1 Keyboard",
		Level:       catalog.LevelA,
		Rules:       []catalog.AssignmentRule{ruleFor(1, "Taip", 1, 1, 0)},
	}}

	got := Classify(map[int]Answer{1: AnswerNo}, recs, catalog.LevelAA)
	assert.Empty(t, got.High)
	assert.Empty(t, got.Medium)
	assert.Empty(t, got.Low)
}

func TestClassifyDisallowedLevelNeverAppears(t *testing.T) {
	recs := []catalog.Recommendation{{
		ID:          1,
		Formulation: "1.4.6 Contrast (Enhanced)",
		Level:       catalog.LevelAAA,
		Rules:       []catalog.AssignmentRule{ruleFor(1, "Taip", 1, 1, 1)},
	}}

	for _, target := range []catalog.Level{catalog.LevelA, catalog.LevelAA} {
		got := Classify(map[int]Answer{1: AnswerYes}, recs, target)
		assert.Empty(t, got.High, "target=%s", target)
		assert.Empty(t, got.Medium, "target=%s", target)
		assert.Empty(t, got.Low, "target=%s", target)
	}
}

func TestClassifyMaxOfMultipleMatches(t *testing.T) {
	recs := []catalog.Recommendation{{
		ID:          1,
		Formulation: "3.3.2 Labels or Instructions",
		Level:       catalog.LevelA,
		Rules: []catalog.AssignmentRule{
			ruleFor(1, "Taip", 0.5, 0.5, 0.5), // 0.5
			ruleFor(2, "Taip", 1, 1, 0),       // 0.8
		},
	}}

	got := Classify(map[int]Answer{1: AnswerYes, 2: AnswerYes}, recs, catalog.LevelAA)
	require.Len(t, got.High, 1)
	assert.InDelta(t, 0.8, got.High[0].Probability, 1e-9)
}

func TestClassifyDisjunctiveNameRoleValue(t *testing.T) {
	recs := []catalog.Recommendation{{
		ID:          1,
		Formulation: "4.1.2 Name, Role, Value",
		Level:       catalog.LevelA,
		Rules: []catalog.AssignmentRule{
			ruleFor(1, "Taip", 0, 0, 0),
			ruleFor(2, "", 0, 0, 0), // no expected value: actual YES matches
		},
	}}

	// Second rule matches through the bare-YES path despite zero weights.
	got := Classify(map[int]Answer{2: AnswerYes}, recs, catalog.LevelAA)
	require.Len(t, got.High, 1)
	assert.InDelta(t, 1.0, got.High[0].Probability, 1e-9)

	// No rule matches: excluded entirely, not Low.
	got = Classify(map[int]Answer{1: AnswerNo, 2: AnswerNo}, recs, catalog.LevelAA)
	assert.Empty(t, got.High)
	assert.Empty(t, got.Low)
}

func TestClassifyDedupesFamiliesAcrossBuckets(t *testing.T) {
	recs := []catalog.Recommendation{
		{ID: 1, Formulation: "1.4.3 Contrast (Minimum)", Level: catalog.LevelAA,
			Rules: []catalog.AssignmentRule{ruleFor(1, "Taip", 0.5, 0.5, 0.5)}}, // 0.5 -> Medium
		{ID: 2, Formulation: "1.4.6 Contrast (Enhanced)", Level: catalog.LevelAAA,
			Rules: []catalog.AssignmentRule{ruleFor(1, "Taip", 1, 1, 1)}}, // 1.0 -> High
	}

	got := Classify(map[int]Answer{1: AnswerYes}, recs, catalog.LevelAAA)
	require.Len(t, got.High, 1)
	assert.Equal(t, 2, got.High[0].ID, "the AAA variant wins the family")
	assert.Empty(t, got.Medium, "the AA variant is removed by deduplication")
}

func TestClassifyZeroRulesDropped(t *testing.T) {
	recs := []catalog.Recommendation{{
		ID: 1, Formulation: "2.4.2 Page Titled", Level: catalog.LevelA,
	}}
	got := Classify(map[int]Answer{1: AnswerYes}, recs, catalog.LevelAA)
	assert.Empty(t, got.High)
	assert.Empty(t, got.Medium)
	assert.Empty(t, got.Low)
}

func TestUniversalBucket(t *testing.T) {
	recs := []catalog.Recommendation{
		{ID: 1, Formulation: "Provide an accessibility statement", Universal: true, Level: catalog.LevelOther},
		{ID: 2, Formulation: "2.4.2 Page Titled", Universal: true, Level: catalog.LevelNone},
		{ID: 3, Formulation: "1.4.6 Contrast (Enhanced)", Universal: true, Level: catalog.LevelAAA},
		{ID: 4, Formulation: "2.1.1 Keyboard", Universal: false, Level: catalog.LevelA},
	}

	got := Universal(recs, catalog.LevelAA)
	ids := make([]int, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	// AAA-level universal is filtered under an AA target; non-universal never
	// appears; unset and "other" levels always pass.
	assert.ElementsMatch(t, []int{1, 2}, ids)
}
