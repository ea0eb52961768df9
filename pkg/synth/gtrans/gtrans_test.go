package gtrans_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lorikeet-audio/lorikeet/pkg/synth"
	"github.com/lorikeet-audio/lorikeet/pkg/synth/gtrans"
)

// startServer launches a test HTTP server standing in for the translate
// endpoint. handler receives each request's query values and returns the
// response body and status.
func startServer(t *testing.T, handler func(q map[string]string) ([]byte, int)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_tts" {
			http.NotFound(w, r)
			return
		}
		q := map[string]string{}
		for k, v := range r.URL.Query() {
			q[k] = v[0]
		}
		body, status := handler(q)
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSynthesize_ReturnsClip(t *testing.T) {
	t.Parallel()
	srv := startServer(t, func(q map[string]string) ([]byte, int) {
		if q["tl"] != "en" {
			t.Errorf("tl = %q, want en", q["tl"])
		}
		if q["client"] != "tw-ob" {
			t.Errorf("client = %q, want tw-ob", q["client"])
		}
		return []byte("mp3-bytes"), http.StatusOK
	})

	e := gtrans.New(gtrans.WithBaseURL(srv.URL))
	clip, err := e.Synthesize(context.Background(), "Hello world!", "en")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(clip, []byte("mp3-bytes")) {
		t.Errorf("clip = %q, want mp3-bytes", clip)
	}
}

func TestSynthesize_CanonicalisesLanguageCase(t *testing.T) {
	t.Parallel()
	srv := startServer(t, func(q map[string]string) ([]byte, int) {
		if q["tl"] != "zh-CN" {
			t.Errorf("tl = %q, want zh-CN", q["tl"])
		}
		return []byte("x"), http.StatusOK
	})

	e := gtrans.New(gtrans.WithBaseURL(srv.URL))
	if _, err := e.Synthesize(context.Background(), "你好", "zh-cn"); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
}

func TestSynthesize_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	// No server: the language check must fail before any network call.
	e := gtrans.New(gtrans.WithBaseURL("http://127.0.0.1:0"))
	_, err := e.Synthesize(context.Background(), "Hej!", "se")
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
	if kind := synth.KindOf(err); kind != synth.KindInvalidLanguage {
		t.Errorf("kind = %v, want KindInvalidLanguage", kind)
	}
	if detail := synth.Detail(err); !strings.Contains(detail, `"sv"`) {
		t.Errorf("detail should suggest sv for se, got: %s", detail)
	}
}

func TestSynthesize_SplitsLongTextAndConcatenates(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var parts []string
	srv := startServer(t, func(q map[string]string) ([]byte, int) {
		mu.Lock()
		parts = append(parts, q["q"])
		mu.Unlock()
		return []byte(q["idx"] + "|"), http.StatusOK
	})

	// ~450 characters of repeated words forces three parts.
	text := strings.TrimSpace(strings.Repeat("lorikeet sings ", 30))
	e := gtrans.New(gtrans.WithBaseURL(srv.URL))
	clip, err := e.Synthesize(context.Background(), text, "en")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(parts) < 2 {
		t.Fatalf("expected the text to be split into multiple parts, got %d", len(parts))
	}
	if joined := strings.Join(parts, ""); joined != text {
		t.Errorf("parts do not reassemble the input text:\n got %q\nwant %q", joined, text)
	}
	for _, p := range parts {
		if n := len([]rune(p)); n > 200 {
			t.Errorf("part of %d runes exceeds the limit", n)
		}
	}
	// Responses are concatenated in part order.
	if got := string(clip); got != "0|1|2|" && !strings.HasPrefix(got, "0|1|") {
		t.Errorf("clip = %q, want responses concatenated in order", got)
	}
}

func TestSynthesize_EngineRejectsLanguage(t *testing.T) {
	t.Parallel()
	srv := startServer(t, func(q map[string]string) ([]byte, int) {
		return nil, http.StatusNotFound
	})

	e := gtrans.New(gtrans.WithBaseURL(srv.URL))
	_, err := e.Synthesize(context.Background(), "hi", "en")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := synth.KindOf(err); kind != synth.KindInvalidLanguage {
		t.Errorf("kind = %v, want KindInvalidLanguage", kind)
	}
}

func TestSynthesize_ServerError(t *testing.T) {
	t.Parallel()
	srv := startServer(t, func(q map[string]string) ([]byte, int) {
		return nil, http.StatusInternalServerError
	})

	e := gtrans.New(gtrans.WithBaseURL(srv.URL))
	_, err := e.Synthesize(context.Background(), "hi", "en")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := synth.KindOf(err); kind != synth.KindGenerationFailed {
		t.Errorf("kind = %v, want KindGenerationFailed", kind)
	}
}

func TestSynthesize_ContextDeadline(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := startServer(t, func(q map[string]string) ([]byte, int) {
		<-release
		return []byte("late"), http.StatusOK
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	e := gtrans.New(gtrans.WithBaseURL(srv.URL))
	_, err := e.Synthesize(ctx, "hi", "en")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if kind := synth.KindOf(err); kind != synth.KindTimeout {
		t.Errorf("kind = %v, want KindTimeout", kind)
	}
	var se *synth.Error
	if !errors.As(err, &se) {
		t.Errorf("error is %T, want *synth.Error", err)
	}
}
