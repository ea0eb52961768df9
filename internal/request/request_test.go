package request_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/lorikeet-audio/lorikeet/internal/request"
)

func TestNew_ValidRequest(t *testing.T) {
	t.Parallel()
	req, err := request.New("Hello world!", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Text != "Hello world!" {
		t.Errorf("Text = %q, want %q", req.Text, "Hello world!")
	}
	if req.Lang != "en" {
		t.Errorf("Lang = %q, want en", req.Lang)
	}
}

func TestNew_KeepsTextUntrimmed(t *testing.T) {
	t.Parallel()
	// Trimming is applied only for the emptiness check; the synthesised text
	// is exactly what the client sent.
	req, err := request.New("  padded  ", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Text != "  padded  " {
		t.Errorf("Text = %q, want original untrimmed text", req.Text)
	}
}

func TestNew_EmptyAndWhitespaceText(t *testing.T) {
	t.Parallel()
	for _, text := range []string{"", " ", "\t\n  ", " "} {
		if _, err := request.New(text, "en"); err == nil {
			t.Errorf("New(%q, en) accepted, want rejection", text)
		}
	}
}

func TestNew_TextLengthBoundary(t *testing.T) {
	t.Parallel()
	if _, err := request.New(strings.Repeat("a", request.MaxTextLen), "en"); err != nil {
		t.Errorf("text of exactly %d characters rejected: %v", request.MaxTextLen, err)
	}
	if _, err := request.New(strings.Repeat("a", request.MaxTextLen+1), "en"); err == nil {
		t.Errorf("text of %d characters accepted, want rejection", request.MaxTextLen+1)
	}
}

func TestNew_LengthCountsRunesNotBytes(t *testing.T) {
	t.Parallel()
	// 5000 three-byte runes are 15000 bytes but still within the limit.
	if _, err := request.New(strings.Repeat("あ", request.MaxTextLen), "ja"); err != nil {
		t.Errorf("5000-rune multibyte text rejected: %v", err)
	}
}

func TestNew_LangDefaultsToEnglish(t *testing.T) {
	t.Parallel()
	for _, lang := range []string{"", "  "} {
		req, err := request.New("hi", lang)
		if err != nil {
			t.Fatalf("New(hi, %q): %v", lang, err)
		}
		if req.Lang != request.DefaultLanguage {
			t.Errorf("Lang = %q, want %q", req.Lang, request.DefaultLanguage)
		}
	}
}

func TestNew_LangTrimmed(t *testing.T) {
	t.Parallel()
	req, err := request.New("hi", " sv ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Lang != "sv" {
		t.Errorf("Lang = %q, want sv", req.Lang)
	}
}

func TestNew_ImplausibleLang(t *testing.T) {
	t.Parallel()
	for _, lang := range []string{"en us", "en!", strings.Repeat("x", 40)} {
		if _, err := request.New("hi", lang); err == nil {
			t.Errorf("New(hi, %q) accepted, want rejection", lang)
		}
	}
	// Unknown but plausible codes pass; the engine decides support later.
	if _, err := request.New("hi", "xx-not-real"); err != nil {
		t.Errorf("plausible unknown code rejected: %v", err)
	}
}

func TestNew_ReportsAllViolationsTogether(t *testing.T) {
	t.Parallel()
	_, err := request.New(strings.Repeat(" ", request.MaxTextLen+1), "no spaces allowed")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *request.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error is %T, want *ValidationError", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("got %d field errors, want 3 (empty text, too long, bad lang): %v", len(verr.Fields), verr)
	}
	seen := map[string]int{}
	for _, f := range verr.Fields {
		seen[f.Field]++
	}
	if seen["text"] != 2 || seen["lang"] != 1 {
		t.Errorf("violations per field = %v, want text:2 lang:1", seen)
	}
}
