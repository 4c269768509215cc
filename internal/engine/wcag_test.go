package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCode(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"1.4.3 Contrast (Minimum)", "1.4.3"},
		{"1.4.3. Contrast with trailing period", "1.4.3"},
		{"2.1 Keyboard Accessible", "2.1"},
		{"1.2.3.4 deep code", "1.2.3.4"},
		{"Contrast without a code", ""},
		{"", ""},
		{"   ", ""},
		{"1 too short", ""},
		{"1.2.3.4.5 too deep", ""},
		{"v1.4.3 not numeric", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractCode(tc.text), "text=%q", tc.text)
	}
}

func TestCompareCodesNumericNotLexical(t *testing.T) {
	assert.Negative(t, CompareCodes("1.4.3", "1.4.10"))
	assert.Positive(t, CompareCodes("1.4.10", "1.4.3"))
	assert.Zero(t, CompareCodes("1.4.3", "1.4.3"))
}

func TestCompareCodesMissingSegments(t *testing.T) {
	// A missing segment compares as -1, so a prefix sorts first.
	assert.Negative(t, CompareCodes("1.4", "1.4.1"))
	// Unparseable codes sort last.
	assert.Positive(t, CompareCodes("", "1.1"))
	assert.Negative(t, CompareCodes("1.1", ""))
	assert.Zero(t, CompareCodes("", ""))
}

func TestSortByCodeStable(t *testing.T) {
	items := []string{
		"no code here",
		"1.4.10 text spacing",
		"1.4.3 contrast",
		"also no code",
		"1.1.1 non-text content",
	}
	got := SortByCode(items, func(s string) string { return s })
	assert.Equal(t, []string{
		"1.1.1 non-text content",
		"1.4.3 contrast",
		"1.4.10 text spacing",
		"no code here",
		"also no code",
	}, got)
}
