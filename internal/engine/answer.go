package engine

import "strings"

// Answer is the canonical ternary value for a criterion answer.
type Answer string

const (
	AnswerYes     Answer = "YES"
	AnswerNo      Answer = "NO"
	AnswerMaybe   Answer = "MAYBE"
	AnswerUnknown Answer = ""
)

// NormalizeAnswer maps a raw answer label to its canonical ternary value.
// Labels arrive localized (Taip/Ne/Gal/Galbūt) or already canonical,
// case-insensitively. Anything else is AnswerUnknown and treated as absent
// by the classifier; this is never an error.
func NormalizeAnswer(raw string) Answer {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TAIP", "YES":
		return AnswerYes
	case "NE", "NO":
		return AnswerNo
	case "GAL", "GALBŪT", "GALBUT", "MAYBE":
		return AnswerMaybe
	default:
		return AnswerUnknown
	}
}
