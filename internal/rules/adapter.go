package rules

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

var ErrMoveRejected = errors.New("move rejected by rules engine")

type CastleSide string

const (
	CastleNone  CastleSide = ""
	CastleKing  CastleSide = "king"
	CastleQueen CastleSide = "queen"
)

// Effect describes what a single move changed on the logical board.
type Effect struct {
	Mover nchess.Piece
	From  nchess.Square
	To    nchess.Square

	HasCapture    bool
	CapturedAt    nchess.Square
	CapturedPiece nchess.Piece
	IsEnPassant   bool

	CastleSide CastleSide
	RookFrom   nchess.Square
	RookTo     nchess.Square

	Promotion nchess.PieceType
}

// Replay is a logical game replayed move by move from the initial position.
type Replay struct {
	game *nchess.Game
}

func NewReplay() *Replay {
	return &Replay{game: nchess.NewGame()}
}

// MoveCount reports how many moves have been applied.
func (r *Replay) MoveCount() int {
	if r == nil || r.game == nil {
		return 0
	}
	return len(r.game.Moves())
}

// Apply replays exactly one SAN move and reports its effect. A rejected move
// leaves the replay untouched.
func (r *Replay) Apply(san string) (Effect, error) {
	if r == nil || r.game == nil {
		return Effect{}, fmt.Errorf("%w: replay not initialized", ErrMoveRejected)
	}
	text := strings.TrimSpace(san)
	if text == "" {
		return Effect{}, fmt.Errorf("%w: empty move text", ErrMoveRejected)
	}
	pos := r.game.Position()
	if err := r.game.PushNotationMove(text, nchess.AlgebraicNotation{}, nil); err != nil {
		return Effect{}, fmt.Errorf("%w: %q: %v", ErrMoveRejected, text, err)
	}
	moves := r.game.Moves()
	mv := moves[len(moves)-1]

	eff := Effect{
		Mover:     pos.Board().Piece(mv.S1()),
		From:      mv.S1(),
		To:        mv.S2(),
		Promotion: mv.Promo(),
	}

	if mv.HasTag(nchess.Capture) || mv.HasTag(nchess.EnPassant) {
		captureSquare := mv.S2()
		if mv.HasTag(nchess.EnPassant) {
			// The victim pawn sits on the destination file at the origin rank,
			// not on the destination square.
			captureSquare = nchess.NewSquare(mv.S2().File(), mv.S1().Rank())
			eff.IsEnPassant = true
		}
		victim := pos.Board().Piece(captureSquare)
		if victim != nchess.NoPiece {
			eff.HasCapture = true
			eff.CapturedAt = captureSquare
			eff.CapturedPiece = victim
		}
	}

	rank := mv.S1().Rank()
	switch {
	case mv.HasTag(nchess.KingSideCastle):
		eff.CastleSide = CastleKing
		eff.RookFrom = nchess.NewSquare(nchess.FileH, rank)
		eff.RookTo = nchess.NewSquare(nchess.FileF, rank)
	case mv.HasTag(nchess.QueenSideCastle):
		eff.CastleSide = CastleQueen
		eff.RookFrom = nchess.NewSquare(nchess.FileA, rank)
		eff.RookTo = nchess.NewSquare(nchess.FileD, rank)
	}

	return eff, nil
}

// Snapshot returns the occupied squares of the current logical position.
func (r *Replay) Snapshot() map[nchess.Square]nchess.Piece {
	out := make(map[nchess.Square]nchess.Piece)
	if r == nil || r.game == nil {
		return out
	}
	for sq, piece := range r.game.Position().Board().SquareMap() {
		if piece != nchess.NoPiece {
			out[sq] = piece
		}
	}
	return out
}
