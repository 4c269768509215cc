package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Level is a WCAG conformance level. Recommendations outside the three
// tiers carry LevelOther; an empty Level means none was configured.
type Level string

const (
	LevelA     Level = "A"
	LevelAA    Level = "AA"
	LevelAAA   Level = "AAA"
	LevelOther Level = "OTHER"
	LevelNone  Level = ""
)

// ParseLevel normalizes a raw level string. The source catalog stores
// "KITA" for recommendations outside the A/AA/AAA tiers.
func ParseLevel(raw string) Level {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "A":
		return LevelA
	case "AA":
		return LevelAA
	case "AAA":
		return LevelAAA
	case "KITA", "OTHER":
		return LevelOther
	default:
		return LevelNone
	}
}

// Allowed returns the recommendation levels admissible under a project's
// declared target. Tiers are cumulative: AA admits A, AAA admits everything.
func Allowed(target Level) []Level {
	switch target {
	case LevelA:
		return []Level{LevelA}
	case LevelAA:
		return []Level{LevelA, LevelAA}
	case LevelAAA:
		return []Level{LevelA, LevelAA, LevelAAA}
	default:
		return nil
	}
}

// Priority returns the allowed levels ordered highest first, used to pick a
// single representative from a family of level-variant recommendations.
func Priority(target Level) []Level {
	switch target {
	case LevelAAA:
		return []Level{LevelAAA, LevelAA, LevelA}
	case LevelAA:
		return []Level{LevelAA, LevelA}
	default:
		return []Level{LevelA}
	}
}

// LevelAllowed reports whether lvl is admissible under target.
func LevelAllowed(target, lvl Level) bool {
	for _, a := range Allowed(target) {
		if a == lvl {
			return true
		}
	}
	return false
}

// Criterion is one yes/no/maybe question used to characterize a use case,
// together with its ordered set of possible answer values.
type Criterion struct {
	ID          int             `json:"id"`
	Question    string          `json:"question"`
	Explanation string          `json:"explanation,omitempty"`
	Values      []PossibleValue `json:"values"`
}

// PossibleValue is one allowed answer for a criterion. Labels are free text
// (localized Yes/No/Maybe in the source data); they are only interpreted
// through engine.NormalizeAnswer.
type PossibleValue struct {
	ID          int    `json:"id"`
	CriterionID int    `json:"criterion_id"`
	Label       string `json:"label"`
}

// AssignmentRule links a recommendation to an expected answer for one
// criterion, with three non-negative weight coefficients.
type AssignmentRule struct {
	CriterionID int     `json:"criterion_id"`
	ValueID     int     `json:"value_id"`
	Expected    string  `json:"expected"`
	V1          float64 `json:"v1"`
	V2          float64 `json:"v2"`
	V3          float64 `json:"v3"`
}

// Recommendation is a candidate accessibility obligation. The WCAG code is
// embedded as the leading token of the formulation text.
type Recommendation struct {
	ID          int              `json:"id"`
	Formulation string           `json:"formulation"`
	Goal        string           `json:"goal"`
	Universal   bool             `json:"universal"`
	Level       Level            `json:"level"`
	Rules       []AssignmentRule `json:"rules"`
}

// UniversalFlag decodes once at the catalog-loading boundary. The source
// database exposes the universal marker as a BIT column, which surfaces as a
// one-byte buffer, a number, or a string depending on the access path.
type UniversalFlag bool

func (f *UniversalFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = false
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			*f = false
			return nil
		}
		*f = UniversalFlag(DecodeUniversal(s))
		return nil
	}
	if data[0] == '{' {
		// mysql BIT columns serialize as {"type":"Buffer","data":[1]}
		var buf struct {
			Data []int `json:"data"`
		}
		if err := json.Unmarshal(data, &buf); err == nil {
			*f = UniversalFlag(len(buf.Data) > 0 && buf.Data[0] == 1)
		}
		return nil
	}
	switch string(data) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// DecodeUniversal maps the raw universal marker to a plain bool. Unrecognized
// input is treated as not universal.
func DecodeUniversal(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "1", "TRUE", "YES", "TAIP", "T":
		return true
	default:
		return false
	}
}
