package scene

import (
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/kapu/replayboard/internal/board"
)

// TransitionKind names a visual transition the renderer understands.
type TransitionKind string

const (
	// Slide is a flat horizontal move between squares.
	Slide TransitionKind = "slide"
	// Hop is the knight's arched move: horizontal travel over the full
	// duration, vertical up-then-down in two half-duration phases so the
	// apex aligns with the midpoint of travel.
	Hop TransitionKind = "hop"
	// Raise, Travel and Lower form the three-phase capture exit.
	Raise  TransitionKind = "raise"
	Travel TransitionKind = "travel"
	Lower  TransitionKind = "lower"
	// Pulse is the decaying highlight after a promotion swap.
	Pulse TransitionKind = "pulse"
	// Crown is the end-of-game decoration over a side's rest area.
	Crown TransitionKind = "crown"
)

// WorldTarget is where a transition ends: a board square or a tray rest slot.
type WorldTarget struct {
	Square *nchess.Square
	Rest   *board.RestSlot
}

func SquareTarget(sq nchess.Square) *WorldTarget { return &WorldTarget{Square: &sq} }

func RestTarget(slot board.RestSlot) *WorldTarget { return &WorldTarget{Rest: &slot} }

// TransitionSpec is one timed visual effect. Delay offsets the start from the
// moment the command batch is emitted.
type TransitionSpec struct {
	Kind     TransitionKind
	Delay    time.Duration
	Duration time.Duration
	To       *WorldTarget
	Height   float64
}

// Sink is the rendering surface. The synchronizer never touches rendering
// primitives directly; it describes placements and transitions and the sink
// realizes them.
type Sink interface {
	Spawn(id board.PieceID, attr board.Attributes, at nchess.Square)
	Place(id board.PieceID, at nchess.Square)
	Animate(id board.PieceID, spec TransitionSpec)
	Remove(id board.PieceID)
	Decorate(side nchess.Color, spec TransitionSpec)
	Clear()
}

// KindName maps a piece type to its wire name.
func KindName(pt nchess.PieceType) string {
	switch pt {
	case nchess.King:
		return "king"
	case nchess.Queen:
		return "queen"
	case nchess.Rook:
		return "rook"
	case nchess.Bishop:
		return "bishop"
	case nchess.Knight:
		return "knight"
	case nchess.Pawn:
		return "pawn"
	}
	return ""
}

// SideName maps a color to its wire name.
func SideName(c nchess.Color) string {
	if c == nchess.White {
		return "white"
	}
	return "black"
}
