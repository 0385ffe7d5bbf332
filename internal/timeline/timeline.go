package timeline

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

var ErrNoTimeline = errors.New("no usable timeline")

// Result tags carried by a game record.
const (
	ResultWhiteWon = "1-0"
	ResultBlackWon = "0-1"
	ResultDraw     = "1/2-1/2"
	ResultOpen     = "*"
)

// Move is one validated move of the active game. Immutable once parsed.
type Move struct {
	Index     int
	SAN       string
	IsCapture bool
}

// GameTimeline is the ordered move list plus the end-of-game result tag.
// It is replaced wholesale on game switch, never mutated in place.
type GameTimeline struct {
	Moves  []Move
	Result string
}

func (t *GameTimeline) TotalMoves() int {
	if t == nil {
		return 0
	}
	return len(t.Moves)
}

// FinalIndex is the index of the last move, or -1 for an empty timeline.
func (t *GameTimeline) FinalIndex() int { return t.TotalMoves() - 1 }

// SANs returns the move texts up to and including index (exclusive upper bound
// is index+1); index -1 yields an empty slice.
func (t *GameTimeline) SANs(index int) []string {
	if t == nil || index < 0 {
		return nil
	}
	if index >= len(t.Moves) {
		index = len(t.Moves) - 1
	}
	out := make([]string, 0, index+1)
	for _, mv := range t.Moves[:index+1] {
		out = append(out, mv.SAN)
	}
	return out
}

// Parse converts raw PGN text into a GameTimeline. A record that cannot be
// parsed, or that contains no moves, surfaces as ErrNoTimeline.
func Parse(pgnText string) (*GameTimeline, error) {
	trimmed := strings.TrimSpace(pgnText)
	if trimmed == "" {
		return nil, ErrNoTimeline
	}
	opt, err := nchess.PGN(strings.NewReader(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTimeline, err)
	}
	game := nchess.NewGame(opt)
	moves := game.Moves()
	if len(moves) == 0 {
		return nil, ErrNoTimeline
	}
	positions := game.Positions()
	notation := nchess.AlgebraicNotation{}

	tl := &GameTimeline{Moves: make([]Move, 0, len(moves)), Result: ResultOpen}
	for i, mv := range moves {
		if i >= len(positions) {
			break
		}
		tl.Moves = append(tl.Moves, Move{
			Index:     i,
			SAN:       notation.Encode(positions[i], mv),
			IsCapture: mv.HasTag(nchess.Capture) || mv.HasTag(nchess.EnPassant),
		})
	}
	switch game.Outcome() {
	case nchess.WhiteWon:
		tl.Result = ResultWhiteWon
	case nchess.BlackWon:
		tl.Result = ResultBlackWon
	case nchess.Draw:
		tl.Result = ResultDraw
	}
	return tl, nil
}
