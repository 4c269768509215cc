package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wcagadvisor/internal/catalog"
)

func rec(id int, formulation string, level catalog.Level) catalog.Recommendation {
	return catalog.Recommendation{ID: id, Formulation: formulation, Level: level}
}

func dedupeRecs(list []catalog.Recommendation, target catalog.Level) []catalog.Recommendation {
	return Deduplicate(list,
		func(r catalog.Recommendation) string { return ExtractCode(r.Formulation) },
		func(r catalog.Recommendation) int { return r.ID },
		catalog.Priority(target))
}

func TestDeduplicatePicksHighestAllowedVariant(t *testing.T) {
	list := []catalog.Recommendation{
		rec(1, "1.4.3 Contrast (Minimum)", catalog.LevelAA),
		rec(2, "1.4.6 Contrast (Enhanced)", catalog.LevelAAA),
	}

	got := dedupeRecs(list, catalog.LevelAAA)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID, "AAA project keeps the 1.4.6 variant")

	got = dedupeRecs(list, catalog.LevelAA)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID, "AA project keeps the 1.4.3 variant")
}

func TestDeduplicateNeverYieldsTwoFamilyMembers(t *testing.T) {
	list := []catalog.Recommendation{
		rec(1, "2.1.1 Keyboard", catalog.LevelA),
		rec(2, "2.1.3 Keyboard (No Exception)", catalog.LevelAAA),
		rec(3, "1.2.3 Audio Description or Media Alternative", catalog.LevelA),
		rec(4, "1.2.8 Media Alternative (Prerecorded)", catalog.LevelAAA),
		rec(5, "3.1.1 Language of Page", catalog.LevelA),
	}

	got := dedupeRecs(list, catalog.LevelAAA)

	codes := make(map[string]bool)
	for _, r := range got {
		codes[ExtractCode(r.Formulation)] = true
	}
	assert.False(t, codes["2.1.1"] && codes["2.1.3"])
	assert.False(t, codes["1.2.3"] && codes["1.2.8"])
	assert.True(t, codes["3.1.1"], "non-family items pass through")
}

func TestDeduplicateKeepsBaseItemsAndOrder(t *testing.T) {
	list := []catalog.Recommendation{
		rec(10, "3.2.1 On Focus", catalog.LevelA),
		rec(11, "1.4.3 Contrast (Minimum)", catalog.LevelAA),
		rec(12, "4.1.1 Parsing", catalog.LevelA),
	}

	got := dedupeRecs(list, catalog.LevelAA)
	// Family picks come first, then base items in their original order.
	assert.Equal(t, []int{11, 10, 12}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestDeduplicateDropsDuplicateIDs(t *testing.T) {
	list := []catalog.Recommendation{
		rec(7, "3.2.1 On Focus", catalog.LevelA),
		rec(7, "3.2.1 On Focus", catalog.LevelA),
	}
	got := dedupeRecs(list, catalog.LevelA)
	assert.Len(t, got, 1)
}

func TestDeduplicateEmptyInput(t *testing.T) {
	assert.Empty(t, dedupeRecs(nil, catalog.LevelAAA))
}
