package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// A WCAG code is the leading token of a recommendation's formulation:
// 2 to 4 dotted numeric segments, optionally with a trailing period.
var codePattern = regexp.MustCompile(`^(\d+(?:\.\d+){1,3})(?:\.)?$`)

// ExtractCode returns the WCAG code embedded in the first whitespace-delimited
// token of text, or "" when the token does not parse as a code.
func ExtractCode(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return ""
	}
	m := codePattern.FindStringSubmatch(fields[0])
	if m == nil {
		return ""
	}
	return m[1]
}

// CompareCodes orders two WCAG codes by numeric segment comparison, so that
// "1.4.3" sorts before "1.4.10". A missing segment compares as -1. Codes that
// fail to parse sort after valid ones. Returns <0, 0 or >0.
func CompareCodes(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	as := codeParts(a)
	bs := codeParts(b)
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := -1, -1
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av != bv {
			return av - bv
		}
	}
	return 0
}

func codeParts(code string) []int {
	raw := strings.Split(code, ".")
	out := make([]int, 0, len(raw))
	for _, seg := range raw {
		v, err := strconv.Atoi(seg)
		if err != nil {
			v = -1
		}
		out = append(out, v)
	}
	return out
}

// SortByCode stable-sorts items by the WCAG code extracted from their text,
// preserving insertion order for equal or missing codes. Used for the final
// display order of recommendation lists.
func SortByCode[T any](items []T, text func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return CompareCodes(ExtractCode(text(out[i])), ExtractCode(text(out[j]))) < 0
	})
	return out
}
