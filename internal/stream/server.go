package stream

import (
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/kapu/replayboard/internal/anim"
	"github.com/kapu/replayboard/internal/library"
)

// Server accepts replay session websockets. One connection is one session:
// the client loads a game, signals asset readiness, and drives the scrubber;
// the server streams scene commands back.
type Server struct {
	store  *library.Store
	timing anim.Timing
	logger *zap.Logger
}

func NewServer(store *library.Store, timing anim.Timing, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, timing: timing, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/stream", s.handleStream)
	return mux
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		s.logger.Warn("stream_accept_error", zap.Error(err))
		return
	}
	defer c.Close(websocket.StatusInternalError, "session aborted")

	sess, err := newSession(s.store, s.timing, s.logger)
	if err != nil {
		s.logger.Error("session_init_error", zap.Error(err))
		return
	}
	defer sess.close()

	s.logger.Info("session_open", zap.String("remote", r.RemoteAddr))
	sess.run(r.Context(), c)
	s.logger.Info("session_close", zap.String("remote", r.RemoteAddr))
	c.Close(websocket.StatusNormalClosure, "")
}
