package stream

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/kapu/replayboard/internal/anim"
	"github.com/kapu/replayboard/internal/board"
	"github.com/kapu/replayboard/internal/boardsync"
	"github.com/kapu/replayboard/internal/library"
	"github.com/kapu/replayboard/internal/scene"
	"github.com/kapu/replayboard/internal/timeline"
	"github.com/kapu/replayboard/pkg/replaydto"
)

// ServerFrame is one outbound message on a replay session stream.
type ServerFrame struct {
	Type     string                  `json:"type"` // state | commands | error
	State    *replaydto.SessionState `json:"state,omitempty"`
	Commands []scene.Command         `json:"commands,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// session owns one client's replay state: a registry, a scheduler, and a
// synchronizer whose sink is a recorder drained onto the websocket.
type session struct {
	store    *library.Store
	recorder *scene.Recorder
	sched    *anim.Scheduler
	sync     *boardsync.Synchronizer
	logger   *zap.Logger

	gameUUID string
	writeMu  sync.Mutex
}

const flushInterval = 100 * time.Millisecond

func newSession(store *library.Store, timing anim.Timing, logger *zap.Logger) (*session, error) {
	recorder := scene.NewRecorder()
	sched := anim.NewScheduler(anim.RealClock())
	syncer, err := boardsync.New(board.NewRegistry(), sched, recorder, timing, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		store:    store,
		recorder: recorder,
		sched:    sched,
		sync:     syncer,
		logger:   logger,
	}, nil
}

func (s *session) close() {
	s.sched.CancelAll()
}

// run serves the session until the connection drops. Deferred effects
// (promotion swaps, decorations) land in the recorder from timer callbacks,
// so a flusher drains it on an interval in addition to the per-op flush.
func (s *session) run(ctx context.Context, c *websocket.Conn) {
	flushCtx, cancelFlush := context.WithCancel(ctx)
	defer cancelFlush()
	go s.flushLoop(flushCtx, c)

	for {
		var op replaydto.ClientOp
		if err := wsjson.Read(ctx, c, &op); err != nil {
			return
		}
		s.dispatch(ctx, c, op)
	}
}

func (s *session) dispatch(ctx context.Context, c *websocket.Conn, op replaydto.ClientOp) {
	switch op.Op {
	case "ready":
		s.sync.AssetsReady()
	case "load":
		s.handleLoad(ctx, c, op.GameUUID)
	case "seek":
		if err := s.sync.Reconcile(op.Index); err != nil {
			s.writeFrame(ctx, c, ServerFrame{Type: "error", Error: err.Error()})
			return
		}
	case "reset":
		if err := s.sync.Reconcile(-1); err != nil {
			s.writeFrame(ctx, c, ServerFrame{Type: "error", Error: err.Error()})
			return
		}
	default:
		s.writeFrame(ctx, c, ServerFrame{Type: "error", Error: "unknown op"})
		return
	}
	s.flush(ctx, c)
	s.writeFrame(ctx, c, ServerFrame{Type: "state", State: s.state()})
}

func (s *session) handleLoad(ctx context.Context, c *websocket.Conn, gameUUID string) {
	game, err := s.store.Get(ctx, gameUUID)
	if err != nil || game == nil {
		s.writeFrame(ctx, c, ServerFrame{Type: "error", Error: "game not found"})
		return
	}
	tl, err := timeline.Parse(game.PGN)
	if err != nil {
		if errors.Is(err, timeline.ErrNoTimeline) {
			s.writeFrame(ctx, c, ServerFrame{Type: "error", Error: "no usable timeline in record"})
		} else {
			s.writeFrame(ctx, c, ServerFrame{Type: "error", Error: "parse failure"})
		}
		return
	}
	s.gameUUID = gameUUID
	s.sync.LoadGame(tl)
	s.logger.Info("session_load",
		zap.String("game_uuid", gameUUID),
		zap.Int("moves", tl.TotalMoves()),
		zap.String("result", tl.Result),
	)
}

func (s *session) state() *replaydto.SessionState {
	return &replaydto.SessionState{
		GameUUID:     s.gameUUID,
		TotalMoves:   s.sync.TotalMoves(),
		CurrentIndex: s.sync.CurrentIndex(),
		IsAtEnd:      s.sync.IsAtEnd(),
		Result:       s.sync.Result(),
	}
}

func (s *session) flushLoop(ctx context.Context, c *websocket.Conn) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flush(ctx, c)
		}
	}
}

func (s *session) flush(ctx context.Context, c *websocket.Conn) {
	commands := s.recorder.Drain()
	if len(commands) == 0 {
		return
	}
	s.writeFrame(ctx, c, ServerFrame{Type: "commands", Commands: commands})
}

func (s *session) writeFrame(ctx context.Context, c *websocket.Conn, frame ServerFrame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := wsjson.Write(ctx, c, frame); err != nil {
		s.logger.Debug("session_write_error", zap.Error(err))
	}
}
