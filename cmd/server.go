package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/replay"
	"github.com/ossim/ossim/sim/run"
	"github.com/ossim/ossim/sim/trace"
	"github.com/ossim/ossim/sim/workload"
)

var (
	serveAddr         string        // Listen address
	serveStepInterval time.Duration // Delay between replay frames
)

// maxBodyBytes bounds request bodies on the JSON endpoints.
const maxBodyBytes = 1 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Visualizations are served from anywhere, including file://
		return true
	},
}

// Client message types
type clientMessage struct {
	Type       string                 `json:"type"` // "play" or "stop"
	Scenario   *workload.ScenarioSpec `json:"scenario,omitempty"`
	Algorithm  string                 `json:"algorithm,omitempty"`
	IntervalMs int                    `json:"interval_ms,omitempty"` // overrides the server step interval
}

// Server message types
type serverMessage struct {
	Type    string        `json:"type"` // "started", "frame", "done", "stopped", "error"
	Outcome *run.Outcome  `json:"outcome,omitempty"`
	Frame   *replay.Frame `json:"frame,omitempty"`
	Total   int           `json:"total,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// server exposes simulations over HTTP and streams replays over websockets.
type server struct {
	runner       *run.Runner
	registry     *prometheus.Registry
	metrics      *serverMetrics
	stepInterval time.Duration
}

func newServer(runner *run.Runner, stepInterval time.Duration) *server {
	registry := prometheus.NewRegistry()
	historyLen := func() int { return 0 }
	if h := runner.History(); h != nil {
		historyLen = h.Len
	}
	return &server{
		runner:       runner,
		registry:     registry,
		metrics:      newServerMetrics(registry, historyLen),
		stepInterval: stepInterval,
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	mux.HandleFunc("POST /api/compare", s.handleCompare)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// decodeScenario reads a strict JSON scenario body.
func decodeScenario(w http.ResponseWriter, r *http.Request) (*workload.ScenarioSpec, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	var spec workload.ScenarioSpec
	if err := dec.Decode(&spec); err != nil {
		return nil, sim.Invalidf("decoding scenario: %v", err)
	}
	return &spec, nil
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	spec, err := decodeScenario(w, r)
	if err != nil {
		s.metrics.fail("", err)
		writeError(w, err)
		return
	}
	outcome, err := s.runner.Run(spec, r.URL.Query().Get("algorithm"))
	if err != nil {
		s.metrics.fail(string(spec.Kind), err)
		writeError(w, err)
		return
	}
	s.metrics.observe(outcome)
	writeJSONResponse(w, http.StatusOK, outcome)
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	spec, err := decodeScenario(w, r)
	if err != nil {
		s.metrics.fail("", err)
		writeError(w, err)
		return
	}
	cmp, err := s.runner.Compare(r.Context(), spec)
	if err != nil {
		s.metrics.fail(string(spec.Kind), err)
		writeError(w, err)
		return
	}
	for _, o := range cmp.Outcomes {
		s.metrics.observe(o)
	}
	writeJSONResponse(w, http.StatusOK, cmp)
}

// historyResponse is the body of GET /api/history.
type historyResponse struct {
	Summary *trace.HistorySummary `json:"summary"`
	Records []trace.RunRecord     `json:"records"`
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var records []trace.RunRecord
	if h := s.runner.History(); h != nil {
		records = h.Records()
	}
	if records == nil {
		records = []trace.RunRecord{}
	}
	writeJSONResponse(w, http.StatusOK, historyResponse{Summary: trace.Summarize(records), Records: records})
}

// writeError maps invalid input to 400 and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if sim.IsInvalidInput(err) {
		status = http.StatusBadRequest
	} else {
		logrus.Errorf("Request failed: %v", err)
	}
	writeJSONResponse(w, status, map[string]string{"error": err.Error()})
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("Error writing response: %v", err)
	}
}

// safeConn wraps a WebSocket connection with a mutex to prevent concurrent writes
type safeConn struct {
	*websocket.Conn
	writeMu sync.Mutex
}

func (sc *safeConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.Conn.WriteJSON(v)
}

// playback is one replay streaming on a connection.
type playback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// stop cancels the playback and waits for it. Reports whether it was still streaming.
func (p *playback) stop() bool {
	defer p.cancel()
	select {
	case <-p.done:
		return false
	default:
	}
	p.cancel()
	<-p.done
	return true
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("Error upgrading connection: %v", err)
		return
	}
	defer conn.Close()

	// Wrap connection with mutex for safe concurrent writes
	sc := &safeConn{Conn: conn}
	logrus.Debugf("Client connected from %s", r.RemoteAddr)

	var current *playback
	defer func() {
		if current != nil {
			current.stop()
		}
		logrus.Debugf("Client %s disconnected", r.RemoteAddr)
	}()

	// Handle messages from client
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Warnf("Error reading message: %v", err)
			}
			return
		}

		switch msg.Type {
		case "play":
			if current != nil {
				current.stop()
				current = nil
			}
			current = s.startPlayback(r.Context(), sc, msg)

		case "stop":
			if current == nil || !current.stop() {
				_ = sc.WriteJSON(serverMessage{Type: "stopped"})
			}
			current = nil

		default:
			_ = sc.WriteJSON(serverMessage{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
	}
}

// startPlayback runs the simulation and streams its frames in a goroutine.
// Returns nil when the simulation was rejected; the error is sent to the client.
func (s *server) startPlayback(parent context.Context, sc *safeConn, msg clientMessage) *playback {
	kind := ""
	if msg.Scenario != nil {
		kind = string(msg.Scenario.Kind)
	}
	outcome, err := s.runner.Run(msg.Scenario, msg.Algorithm)
	if err != nil {
		s.metrics.fail(kind, err)
		_ = sc.WriteJSON(serverMessage{Type: "error", Error: err.Error()})
		return nil
	}
	s.metrics.observe(outcome)

	frames := replay.Frames(outcome)
	if err := sc.WriteJSON(serverMessage{Type: "started", Outcome: outcome, Total: len(frames)}); err != nil {
		return nil
	}

	interval := s.stepInterval
	if msg.IntervalMs > 0 {
		interval = time.Duration(msg.IntervalMs) * time.Millisecond
	}

	ctx, cancel := context.WithCancel(parent)
	p := &playback{cancel: cancel, done: make(chan struct{})}
	finished := s.metrics.replayStarted()
	go func() {
		defer close(p.done)
		defer finished()
		err := replay.Play(ctx, frames, interval, func(f replay.Frame) error {
			return sc.WriteJSON(serverMessage{Type: "frame", Frame: &f})
		})
		switch {
		case err == nil:
			_ = sc.WriteJSON(serverMessage{Type: "done", Total: len(frames)})
		case errors.Is(err, context.Canceled):
			_ = sc.WriteJSON(serverMessage{Type: "stopped"})
		default:
			logrus.Debugf("Replay ended: %v", err)
		}
	}()
	return p
}

// serveCmd starts the HTTP/websocket server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over HTTP, websocket replays and Prometheus metrics",
	Run: func(cmd *cobra.Command, args []string) {
		if serveStepInterval < 0 {
			logrus.Fatalf("--step-interval must be non-negative, got %s", serveStepInterval)
		}
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           newServer(newRunner(), serveStepInterval).routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logrus.Warnf("Shutdown: %v", err)
			}
		}()

		logrus.Infof("Server starting on http://localhost%s", serveAddr)
		logrus.Infof("WebSocket endpoint: ws://localhost%s/ws", serveAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server failed: %v", err)
		}
		logrus.Info("Server stopped")
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().DurationVar(&serveStepInterval, "step-interval", 500*time.Millisecond, "Delay between replay frames")

	rootCmd.AddCommand(serveCmd)
}
