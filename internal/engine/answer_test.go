package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswer(t *testing.T) {
	cases := []struct {
		raw  string
		want Answer
	}{
		{"Taip", AnswerYes},
		{"TAIP", AnswerYes},
		{"yes", AnswerYes},
		{"Ne", AnswerNo},
		{"NO", AnswerNo},
		{"Gal", AnswerMaybe},
		{"Galbūt", AnswerMaybe},
		{"GALBUT", AnswerMaybe},
		{"maybe", AnswerMaybe},
		{"  taip  ", AnswerYes},
		{"", AnswerUnknown},
		{"perhaps", AnswerUnknown},
		{"42", AnswerUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeAnswer(tc.raw), "raw=%q", tc.raw)
	}
}
