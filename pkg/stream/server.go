package stream

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Server upgrades HTTP connections into stream sessions. The caller
// supplies an OnSession callback that drives render cycles for each
// connected sink; the server runs the session's read loop in the
// handler goroutine until the sink disconnects.
type Server struct {
	config    *Config
	upgrader  websocket.Upgrader
	onSession func(*Session)
}

// NewServer creates a stream server. onSession runs in its own
// goroutine per connection and should return when the session closes.
func NewServer(config *Config, onSession func(*Session)) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		onSession: onSession,
	}
}

// Handler returns the HTTP handler: GET /stream upgrades to a session,
// GET /healthz answers liveness probes. Mount it on any router, or
// serve it directly.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/stream", s.handleStream)
	return r
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.logger().Error("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.config)
	s.config.Metrics.RecordSessionStart()
	defer s.config.Metrics.RecordSessionEnd()

	if s.onSession != nil {
		go s.onSession(sess)
	}

	sess.ReadLoop()
}
