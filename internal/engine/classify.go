package engine

import "wcagadvisor/internal/catalog"

// disjunctiveCode is matched with OR semantics across its rules: name, role
// and value concerns apply as soon as any interactive behavior is present.
const disjunctiveCode = "4.1.2"

// Scored is a recommendation with its computed relevance for one use case.
type Scored struct {
	catalog.Recommendation
	Probability float64         `json:"probability"`
	Level       ConfidenceLevel `json:"probability_level"`
}

// Buckets partitions scored recommendations by confidence band.
type Buckets struct {
	High   []Scored `json:"high"`
	Medium []Scored `json:"medium"`
	Low    []Scored `json:"low"`
}

// Classify evaluates the catalog against one use case's answers and returns
// the leveled buckets. Answers must already be normalized; unknown answers
// are expected to be absent from the map.
//
// Recommendations with no matching rule are excluded entirely rather than
// scored Low, and a zero-rule or unconfigured-level recommendation is
// silently dropped. The source system does not distinguish "not applicable"
// from "no data" and neither does this.
func Classify(answers map[int]Answer, recs []catalog.Recommendation, target catalog.Level) Buckets {
	priority := catalog.Priority(target)

	if allMaybe(answers) {
		low := make([]Scored, 0, len(recs))
		for _, rec := range recs {
			if rec.Universal || !catalog.LevelAllowed(target, rec.Level) {
				continue
			}
			low = append(low, Scored{Recommendation: rec, Probability: nominalLowProbability, Level: ConfidenceLow})
		}
		return Buckets{Low: dedupeScored(low, priority)}
	}

	scored := make([]Scored, 0, len(recs))
	for _, rec := range recs {
		if rec.Universal || !catalog.LevelAllowed(target, rec.Level) || len(rec.Rules) == 0 {
			continue
		}

		if ExtractCode(rec.Formulation) == disjunctiveCode {
			if matchAny(answers, rec.Rules) {
				scored = append(scored, Scored{Recommendation: rec, Probability: 1.0, Level: ConfidenceHigh})
			}
			continue
		}

		p, matched := bestMatch(answers, rec.Rules)
		if !matched {
			continue
		}
		lvl, ok := LevelFor(p)
		if !ok {
			continue
		}
		scored = append(scored, Scored{Recommendation: rec, Probability: p, Level: lvl})
	}

	deduped := dedupeScored(scored, priority)

	var out Buckets
	for _, s := range deduped {
		switch s.Level {
		case ConfidenceHigh:
			out.High = append(out.High, s)
		case ConfidenceMedium:
			out.Medium = append(out.Medium, s)
		case ConfidenceLow:
			out.Low = append(out.Low, s)
		}
	}
	return out
}

// Universal returns the answer-independent general bucket: every universal
// recommendation whose level is unset, outside the tiers, or allowed under
// the target, family-deduplicated.
func Universal(recs []catalog.Recommendation, target catalog.Level) []catalog.Recommendation {
	out := make([]catalog.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if !rec.Universal {
			continue
		}
		if rec.Level == catalog.LevelNone || rec.Level == catalog.LevelOther || catalog.LevelAllowed(target, rec.Level) {
			out = append(out, rec)
		}
	}
	return Deduplicate(out,
		func(r catalog.Recommendation) string { return ExtractCode(r.Formulation) },
		func(r catalog.Recommendation) int { return r.ID },
		catalog.Priority(target))
}

// allMaybe reports whether at least one answer exists and every one of them
// is MAYBE. With no discriminating signal the classifier short-circuits to a
// uniform low-confidence listing.
func allMaybe(answers map[int]Answer) bool {
	if len(answers) == 0 {
		return false
	}
	for _, a := range answers {
		if a != AnswerMaybe {
			return false
		}
	}
	return true
}

// matchAny implements the disjunctive case: one rule matching is enough. A
// rule without an expected value matches an actual YES.
func matchAny(answers map[int]Answer, rules []catalog.AssignmentRule) bool {
	for _, rule := range rules {
		ans, answered := answers[rule.CriterionID]
		if !answered || ans == AnswerUnknown {
			continue
		}
		expected := NormalizeAnswer(rule.Expected)
		if expected == AnswerUnknown {
			if ans == AnswerYes {
				return true
			}
			continue
		}
		if ans == expected {
			return true
		}
	}
	return false
}

// bestMatch scores every rule whose criterion was answered exactly as
// expected and returns the maximum. No matching rule means the
// recommendation is excluded, not scored Low.
func bestMatch(answers map[int]Answer, rules []catalog.AssignmentRule) (float64, bool) {
	best := 0.0
	matched := false
	for _, rule := range rules {
		ans, answered := answers[rule.CriterionID]
		if !answered || ans == AnswerUnknown {
			continue
		}
		expected := NormalizeAnswer(rule.Expected)
		if expected == AnswerUnknown || ans != expected {
			continue
		}
		p := RuleProbability(rule)
		if !matched || p > best {
			best = p
		}
		matched = true
	}
	return best, matched
}

func dedupeScored(list []Scored, priority []catalog.Level) []Scored {
	return Deduplicate(list,
		func(s Scored) string { return ExtractCode(s.Formulation) },
		func(s Scored) int { return s.ID },
		priority)
}
