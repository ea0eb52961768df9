// Package languages holds the immutable table of language codes accepted by
// the synthesis engines. The table is fixed at compile time; there is no
// runtime mutation.
package languages

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// table maps canonical language codes to human-readable names.
var table = map[string]string{
	"en":    "English",
	"sv":    "Swedish",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"it":    "Italian",
	"pt":    "Portuguese",
	"ru":    "Russian",
	"ja":    "Japanese",
	"zh-CN": "Chinese (Simplified)",
	"ar":    "Arabic",
	"hi":    "Hindi",
	"ko":    "Korean",
}

// Supported returns a copy of the code → name table. The copy may be mutated
// freely by the caller.
func Supported() map[string]string {
	out := make(map[string]string, len(table))
	for code, name := range table {
		out[code] = name
	}
	return out
}

// Codes returns all supported codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Canonical resolves code to its canonical form, matching case-insensitively
// ("ZH-cn" resolves to "zh-CN"). The second return value reports whether the
// code is supported.
func Canonical(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if _, ok := table[code]; ok {
		return code, true
	}
	lower := strings.ToLower(code)
	for canonical := range table {
		if strings.ToLower(canonical) == lower {
			return canonical, true
		}
	}
	return "", false
}

// Name returns the human-readable name for code, resolving case-insensitively.
func Name(code string) (string, bool) {
	canonical, ok := Canonical(code)
	if !ok {
		return "", false
	}
	return table[canonical], true
}

// minSuggestScore is the lowest Jaro-Winkler similarity still considered a
// plausible typo for a language code.
const minSuggestScore = 0.7

// Suggest returns the supported code closest to the given unsupported code,
// or "" when nothing is similar enough to be a likely typo. Jaro-Winkler
// weights shared prefixes, which suits short codes ("se" suggests "sv", not
// "de").
func Suggest(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}

	best := ""
	bestScore := 0.0
	for _, canonical := range Codes() {
		s := matchr.JaroWinkler(code, strings.ToLower(canonical), false)
		if s > bestScore {
			best = canonical
			bestScore = s
		}
	}
	if bestScore < minSuggestScore {
		return ""
	}
	return best
}
