package languages_test

import (
	"testing"

	"github.com/lorikeet-audio/lorikeet/pkg/languages"
)

func TestCanonical_CaseInsensitive(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"en", "en", true},
		{"EN", "en", true},
		{" sv ", "sv", true},
		{"zh-cn", "zh-CN", true},
		{"ZH-CN", "zh-CN", true},
		{"xx-not-real", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := languages.Canonical(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Canonical(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestName(t *testing.T) {
	t.Parallel()
	name, ok := languages.Name("sv")
	if !ok || name != "Swedish" {
		t.Errorf("Name(sv) = (%q, %v), want (Swedish, true)", name, ok)
	}
	if _, ok := languages.Name("se"); ok {
		t.Error("Name(se) should not resolve — Swedish is sv, not se")
	}
}

func TestSupported_ReturnsCopy(t *testing.T) {
	t.Parallel()
	m := languages.Supported()
	if len(m) == 0 {
		t.Fatal("Supported returned empty table")
	}
	m["en"] = "mutated"
	if fresh := languages.Supported(); fresh["en"] != "English" {
		t.Error("mutating the returned map leaked into the table")
	}
}

func TestCodes_Sorted(t *testing.T) {
	t.Parallel()
	codes := languages.Codes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %q before %q", codes[i-1], codes[i])
		}
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"se", "sv"},       // common typo for Swedish
		{"enn", "en"},
		{"zh-cn", "zh-CN"}, // only case differs
		{"xx-not-real", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := languages.Suggest(tc.in); got != tc.want {
			t.Errorf("Suggest(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
