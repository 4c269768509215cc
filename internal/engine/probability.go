package engine

import "wcagadvisor/internal/catalog"

// ConfidenceLevel is the discrete band a relevance score falls into.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "H"
	ConfidenceMedium ConfidenceLevel = "M"
	ConfidenceLow    ConfidenceLevel = "L"
)

// Weight coefficients of the three rule evidence signals. The relative
// importance is fixed at 50/30/20.
const (
	weightV1 = 0.5
	weightV2 = 0.3
	weightV3 = 0.2
)

// nominalLowProbability is assigned when every answered criterion is MAYBE
// and rule evaluation is skipped.
const nominalLowProbability = 0.29

// RuleProbability computes the relevance score of a matched assignment rule
// as a fixed linear combination of its three weight coefficients.
func RuleProbability(rule catalog.AssignmentRule) float64 {
	return rule.V1*weightV1 + rule.V2*weightV2 + rule.V3*weightV3
}

// LevelFor maps a probability to its confidence band. Boundaries are
// inclusive on both ends; 0.70 is the exact cutover from Medium to High.
// Scores outside [0, 1] fall into no band.
func LevelFor(p float64) (ConfidenceLevel, bool) {
	switch {
	case p >= 0.70 && p <= 1.00:
		return ConfidenceHigh, true
	case p >= 0.30 && p <= 0.69:
		return ConfidenceMedium, true
	case p >= 0.00 && p <= 0.29:
		return ConfidenceLow, true
	default:
		return "", false
	}
}
