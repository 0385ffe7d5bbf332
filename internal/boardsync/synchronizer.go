package boardsync

import (
	"errors"
	"fmt"
	"sync"
	"time"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/kapu/replayboard/internal/anim"
	"github.com/kapu/replayboard/internal/board"
	"github.com/kapu/replayboard/internal/rules"
	"github.com/kapu/replayboard/internal/scene"
	"github.com/kapu/replayboard/internal/timeline"
)

var ErrNoGame = errors.New("no game loaded")

// Synchronizer reconciles a requested move index against the last-applied
// cursor and the piece registry. A single forward step from an initialized
// cursor replays exactly one move and animates it; everything else (backward
// step, jump, first move after load) falls back to a full rebuild with pieces
// instantiated directly at rest. The rebuild is the correctness fallback: it
// is always valid, trading animation fidelity for determinism.
type Synchronizer struct {
	mu       sync.Mutex
	registry *board.Registry
	sched    *anim.Scheduler
	sink     scene.Sink
	timing   anim.Timing
	logger   *zap.Logger

	tl     *timeline.GameTimeline
	replay *rules.Replay // logical position at the cursor; nil until first rebuild

	cursorIndex   int
	ready         bool
	deferredIndex *int

	decorToken anim.Token
	lastMotion time.Duration
}

func New(registry *board.Registry, sched *anim.Scheduler, sink scene.Sink, timing anim.Timing, logger *zap.Logger) (*Synchronizer, error) {
	if registry == nil {
		return nil, fmt.Errorf("piece registry is required")
	}
	if sched == nil {
		return nil, fmt.Errorf("animation scheduler is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("scene sink is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		registry:    registry,
		sched:       sched,
		sink:        sink,
		timing:      timing,
		logger:      logger,
		cursorIndex: -1,
	}, nil
}

// LoadGame replaces the active timeline, drops every pending timer, and
// rebuilds to the pre-game position (index -1). When piece assets are still
// loading, the rebuild is deferred until AssetsReady.
func (s *Synchronizer) LoadGame(tl *timeline.GameTimeline) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sched.CancelAll()
	s.decorToken = anim.NoToken
	s.tl = tl
	s.replay = nil
	s.cursorIndex = -1
	s.lastMotion = 0
	s.deferredIndex = nil

	if !s.ready {
		idx := -1
		s.deferredIndex = &idx
		return
	}
	s.rebuildLocked(-1)
}

// AssetsReady marks piece models as loaded and retries any reconciliation
// that arrived while they were not.
func (s *Synchronizer) AssetsReady() {
	s.mu.Lock()
	s.ready = true
	deferred := s.deferredIndex
	s.deferredIndex = nil
	s.mu.Unlock()

	if deferred != nil {
		_ = s.Reconcile(*deferred)
	}
}

// Reconcile brings the visual board into agreement with requestedIndex.
// Repeated calls with the cursor's own index are a strict no-op.
func (s *Synchronizer) Reconcile(requestedIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tl == nil {
		return ErrNoGame
	}
	if requestedIndex < -1 {
		requestedIndex = -1
	}
	if final := s.tl.FinalIndex(); requestedIndex > final {
		requestedIndex = final
	}

	if !s.ready {
		idx := requestedIndex
		s.deferredIndex = &idx
		s.logger.Warn("sync_assets_pending", zap.Int("requested", requestedIndex))
		return nil
	}

	if requestedIndex == s.cursorIndex && s.replay != nil {
		return nil
	}

	// A new reconciliation supersedes any pending end-of-game decoration.
	if s.decorToken != anim.NoToken {
		s.sched.Cancel(s.decorToken)
		s.decorToken = anim.NoToken
	}

	if requestedIndex == s.cursorIndex+1 && s.replay != nil {
		mv := s.tl.Moves[requestedIndex]
		eff, err := s.replay.Apply(mv.SAN)
		if err != nil {
			// Consistency fault on the incremental path; the rebuild
			// recovers whatever prefix of the record still replays.
			s.logger.Warn("sync_step_rejected",
				zap.Int("index", requestedIndex),
				zap.String("san", mv.SAN),
				zap.Error(err),
			)
			s.rebuildLocked(requestedIndex)
		} else {
			s.applyEffectLocked(eff)
			s.cursorIndex = requestedIndex
			s.logger.Debug("sync_step", zap.Int("index", requestedIndex), zap.String("san", mv.SAN))
		}
	} else {
		s.rebuildLocked(requestedIndex)
	}

	if s.tl.TotalMoves() > 0 && s.cursorIndex == s.tl.FinalIndex() {
		s.scheduleDecorationLocked()
	}
	return nil
}

// TotalMoves reports the length of the active timeline.
func (s *Synchronizer) TotalMoves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tl.TotalMoves()
}

// CurrentIndex reports the last fully-applied move index (-1 before the
// first move).
func (s *Synchronizer) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorIndex
}

// IsAtEnd reports whether the cursor rests on the final move.
func (s *Synchronizer) IsAtEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tl.TotalMoves() > 0 && s.cursorIndex == s.tl.FinalIndex()
}

// Result reports the active game's result tag.
func (s *Synchronizer) Result() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tl == nil {
		return timeline.ResultOpen
	}
	return s.tl.Result
}

// rebuildLocked replays the logical game from its start through
// requestedIndex and resets the registry to the terminal position with no
// animation. A rejected move truncates the replay at the last good move.
func (s *Synchronizer) rebuildLocked(requestedIndex int) {
	replay := rules.NewReplay()
	applied := -1
	if requestedIndex >= 0 {
		for _, mv := range s.tl.Moves[:requestedIndex+1] {
			if _, err := replay.Apply(mv.SAN); err != nil {
				s.logger.Warn("sync_rebuild_truncated",
					zap.Int("index", mv.Index),
					zap.String("san", mv.SAN),
					zap.Error(err),
				)
				break
			}
			applied = mv.Index
		}
	}
	s.replay = replay
	s.cursorIndex = applied
	s.lastMotion = 0

	s.sink.Clear()
	for _, p := range s.registry.Reset(replay.Snapshot()) {
		s.sink.Spawn(p.ID, p.Attr, p.Square)
	}
	s.logger.Debug("sync_rebuild", zap.Int("requested", requestedIndex), zap.Int("applied", applied))
}

// applyEffectLocked translates one move effect into registry mutations and
// sink commands. Ordering is a contract: capture removal precedes the mover's
// relocation, the castle rook moves concurrently with the king, and the
// promotion swap runs only after the primary transition's duration.
func (s *Synchronizer) applyEffectLocked(eff rules.Effect) {
	t := s.timing

	primaryKind := scene.Slide
	primaryDur := t.MoveDuration()
	hopHeight := 0.0
	if eff.Mover.Type() == nchess.Knight {
		primaryKind = scene.Hop
		primaryDur = t.KnightDuration()
		hopHeight = t.Knight.HopHeight
	}

	if eff.HasCapture {
		captor := eff.Mover.Color()
		victimID, slot, err := s.registry.Capture(eff.CapturedAt, captor)
		if err != nil {
			s.logger.Error("sync_capture_fault", zap.String("square", eff.CapturedAt.String()), zap.Error(err))
		} else {
			// Raise begins after the capturing piece has started converging
			// on the destination, then travel to the tray slot, then lower.
			lead := t.CaptureLead()
			raise := time.Duration(t.Capture.RaiseMs) * time.Millisecond
			travel := time.Duration(t.Capture.TravelMs) * time.Millisecond
			lower := time.Duration(t.Capture.LowerMs) * time.Millisecond
			s.sink.Animate(victimID, scene.TransitionSpec{Kind: scene.Raise, Delay: lead, Duration: raise})
			s.sink.Animate(victimID, scene.TransitionSpec{
				Kind:     scene.Travel,
				Delay:    lead + raise,
				Duration: travel,
				To:       scene.RestTarget(slot),
			})
			s.sink.Animate(victimID, scene.TransitionSpec{Kind: scene.Lower, Delay: lead + raise + travel, Duration: lower})
		}
	}

	moverID, err := s.registry.Relocate(eff.From, eff.To)
	if err != nil {
		s.logger.Error("sync_relocate_fault",
			zap.String("from", eff.From.String()),
			zap.String("to", eff.To.String()),
			zap.Error(err),
		)
		s.rebuildLocked(s.cursorIndex + 1)
		return
	}
	s.sink.Animate(moverID, scene.TransitionSpec{
		Kind:     primaryKind,
		Duration: primaryDur,
		To:       scene.SquareTarget(eff.To),
		Height:   hopHeight,
	})

	if eff.CastleSide != rules.CastleNone {
		rookID, rerr := s.registry.Relocate(eff.RookFrom, eff.RookTo)
		if rerr != nil {
			s.logger.Error("sync_castle_fault", zap.String("side", string(eff.CastleSide)), zap.Error(rerr))
		} else {
			s.sink.Animate(rookID, scene.TransitionSpec{
				Kind:     scene.Slide,
				Duration: t.MoveDuration(),
				To:       scene.SquareTarget(eff.RookTo),
			})
		}
	}

	if eff.Promotion != nchess.NoPieceType {
		promoted := eff.Promotion
		pawnID := moverID
		target := eff.To
		s.sched.Schedule(primaryDur, func() {
			s.completePromotion(pawnID, target, promoted)
		})
	}

	s.lastMotion = primaryDur
}

// completePromotion swaps the pawn instance for the promoted kind once the
// primary transition has had time to finish. The swap is keyed to the pawn's
// identity: if a rebuild has replaced the registry in the meantime, the stale
// id is simply gone and the swap no-ops.
func (s *Synchronizer) completePromotion(pawnID board.PieceID, at nchess.Square, kind nchess.PieceType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.registry.At(at)
	if !ok || current != pawnID {
		s.logger.Debug("promotion_swap_superseded", zap.String("square", at.String()))
		return
	}
	retired, minted, err := s.registry.Promote(at, kind)
	if err != nil {
		s.logger.Warn("promotion_swap_fault", zap.String("square", at.String()), zap.Error(err))
		return
	}
	attr, _ := s.registry.Attributes(minted)
	s.sink.Remove(retired)
	s.sink.Spawn(minted, attr, at)
	s.sink.Animate(minted, scene.TransitionSpec{Kind: scene.Pulse, Duration: s.timing.PromotionPulse()})
}

// scheduleDecorationLocked queues the end-of-game decoration after the final
// move's motion has had time to settle. It is a derived, transient effect:
// any later reconcile cancels it before it fires.
func (s *Synchronizer) scheduleDecorationLocked() {
	result := s.tl.Result
	if result == timeline.ResultOpen {
		return
	}
	delay := s.lastMotion + s.timing.DecorationSettle()
	s.decorToken = s.sched.Schedule(delay, func() {
		s.fireDecoration(result)
	})
	s.logger.Debug("decoration_scheduled", zap.String("result", result), zap.Duration("delay", delay))
}

func (s *Synchronizer) fireDecoration(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decorToken = anim.NoToken

	spec := scene.TransitionSpec{Kind: scene.Crown, Duration: s.timing.PromotionPulse()}
	switch result {
	case timeline.ResultWhiteWon:
		s.sink.Decorate(nchess.White, spec)
	case timeline.ResultBlackWon:
		s.sink.Decorate(nchess.Black, spec)
	case timeline.ResultDraw:
		s.sink.Decorate(nchess.White, spec)
		s.sink.Decorate(nchess.Black, spec)
	}
}
