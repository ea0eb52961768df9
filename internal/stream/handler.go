package stream

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/lorikeet-audio/lorikeet/internal/observe"
	"github.com/lorikeet-audio/lorikeet/pkg/synth"
	"golang.org/x/sync/semaphore"
)

var _ http.Handler = (*Handler)(nil)

// Handler upgrades HTTP requests to WebSocket sessions. It optionally caps
// the number of concurrently open sessions; admission is decided before the
// upgrade so rejected clients get a plain 503 instead of a closed socket.
type Handler struct {
	engine  synth.Provider
	metrics *observe.Metrics
	logger  *slog.Logger
	sem     *semaphore.Weighted
	opts    atomic.Pointer[Options]
}

// NewHandler creates a WebSocket handler serving sessions against engine.
// maxSessions <= 0 means unlimited. A nil logger falls back to
// [slog.Default], a nil metrics to [observe.DefaultMetrics].
func NewHandler(engine synth.Provider, opts Options, maxSessions int, metrics *observe.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	h := &Handler{
		engine:  engine,
		metrics: metrics,
		logger:  logger,
	}
	if maxSessions > 0 {
		h.sem = semaphore.NewWeighted(int64(maxSessions))
	}
	opts = opts.withDefaults()
	h.opts.Store(&opts)
	return h
}

// UpdateOptions replaces the options applied to sessions opened from now on.
// Sessions already running keep the options they started with.
func (h *Handler) UpdateOptions(opts Options) {
	opts = opts.withDefaults()
	h.opts.Store(&opts)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.sem != nil {
		if !h.sem.TryAcquire(1) {
			http.Error(w, "too many concurrent sessions", http.StatusServiceUnavailable)
			return
		}
		defer h.sem.Release(1)
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Clients are programmatic, not browsers; origin checks add nothing.
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	h.metrics.ActiveSessions.Add(ctx, 1)
	defer h.metrics.ActiveSessions.Add(ctx, -1)

	logger := h.logger.With("remote", r.RemoteAddr)
	logger.Info("session opened")

	sess := NewSession(conn, h.engine, *h.opts.Load(), h.metrics, logger)
	sess.Run(ctx)

	logger.Info("session closed")
	conn.Close(websocket.StatusNormalClosure, "")
}
