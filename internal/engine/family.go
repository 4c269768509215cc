package engine

import "wcagadvisor/internal/catalog"

// Several WCAG success criteria are level-variants of one underlying
// obligation (for example text contrast at AA vs AAA). Each family maps a
// conformance level to the code of its variant at that level; absent levels
// have no variant.
type family struct {
	key   string
	codes map[catalog.Level]string
}

var families = []family{
	{key: "contrast_text", codes: map[catalog.Level]string{catalog.LevelAA: "1.4.3", catalog.LevelAAA: "1.4.6"}},
	{key: "resize_visual", codes: map[catalog.Level]string{catalog.LevelAA: "1.4.4", catalog.LevelAAA: "1.4.8"}},
	{key: "audio_desc", codes: map[catalog.Level]string{catalog.LevelAA: "1.2.5", catalog.LevelAAA: "1.2.7"}},
	{key: "media_alt", codes: map[catalog.Level]string{catalog.LevelA: "1.2.3", catalog.LevelAAA: "1.2.8"}},
	{key: "keyboard", codes: map[catalog.Level]string{catalog.LevelA: "2.1.1", catalog.LevelAAA: "2.1.3"}},
	{key: "timing", codes: map[catalog.Level]string{catalog.LevelA: "2.2.1", catalog.LevelAAA: "2.2.3"}},
	{key: "headings", codes: map[catalog.Level]string{catalog.LevelAA: "2.4.6", catalog.LevelAAA: "2.4.10"}},
}

var familyCodes = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range families {
		for _, code := range f.codes {
			set[code] = struct{}{}
		}
	}
	return set
}()

// Deduplicate collapses family variants so a use case is never shown two
// recommendations that are the same obligation phrased for different levels.
// For each family the first variant present along the level-priority order
// (highest allowed level first) wins; everything outside a family passes
// through. The result keeps at most one entry per recommendation id, first
// occurrence winning, with family picks ahead of the rest.
func Deduplicate[T any](list []T, code func(T) string, id func(T) int, priority []catalog.Level) []T {
	if len(list) == 0 {
		return list
	}

	byCode := make(map[string]T)
	for _, item := range list {
		if c := code(item); c != "" {
			byCode[c] = item
		}
	}

	base := make([]T, 0, len(list))
	for _, item := range list {
		if _, isFamily := familyCodes[code(item)]; !isFamily {
			base = append(base, item)
		}
	}

	chosen := make([]T, 0, len(families))
	for _, f := range families {
		for _, lvl := range priority {
			c, ok := f.codes[lvl]
			if !ok {
				continue
			}
			if item, present := byCode[c]; present {
				chosen = append(chosen, item)
				break
			}
		}
	}

	seen := make(map[int]struct{}, len(list))
	out := make([]T, 0, len(list))
	for _, item := range append(chosen, base...) {
		key := id(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
