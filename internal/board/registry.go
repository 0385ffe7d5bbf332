package board

import (
	"errors"
	"fmt"
	"sort"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
)

var (
	ErrSquareEmpty    = errors.New("no piece on square")
	ErrSquareOccupied = errors.New("square already occupied")
)

// PieceID is the stable identity of one visual piece, distinct from its board
// position. Promotion retires one id and mints another at the same square.
type PieceID string

type Attributes struct {
	Kind nchess.PieceType
	Side nchess.Color
}

// RestSlot is the deterministic off-board resting position of a captured
// piece in its captor's tray: 8 per row, stacked in rows beyond 8.
type RestSlot struct {
	Side nchess.Color
	Row  int
	Col  int
}

const restRowWidth = 8

// Placement pairs a piece with the square it occupies, used when a rebuild
// re-instantiates the whole board at rest.
type Placement struct {
	ID     PieceID
	Square nchess.Square
	Attr   Attributes
}

// Registry is the authoritative mapping from board coordinate to visual piece
// instance. Position and identity are kept in two parallel maps so a piece
// keeps its id across relocations. Not safe for concurrent use; the
// synchronizer owns it exclusively.
type Registry struct {
	bySquare map[nchess.Square]PieceID
	attrs    map[PieceID]Attributes

	capturedByWhite []PieceID
	capturedByBlack []PieceID
}

func NewRegistry() *Registry {
	return &Registry{
		bySquare: make(map[nchess.Square]PieceID),
		attrs:    make(map[PieceID]Attributes),
	}
}

// Spawn creates a new piece instance on an empty square.
func (r *Registry) Spawn(sq nchess.Square, kind nchess.PieceType, side nchess.Color) (PieceID, error) {
	if _, ok := r.bySquare[sq]; ok {
		return "", fmt.Errorf("%w: %s", ErrSquareOccupied, sq)
	}
	id := PieceID(uuid.NewString())
	r.bySquare[sq] = id
	r.attrs[id] = Attributes{Kind: kind, Side: side}
	return id, nil
}

// At reports the piece occupying sq, if any.
func (r *Registry) At(sq nchess.Square) (PieceID, bool) {
	id, ok := r.bySquare[sq]
	return id, ok
}

// Attributes reports the kind and side for a piece id.
func (r *Registry) Attributes(id PieceID) (Attributes, bool) {
	attr, ok := r.attrs[id]
	return attr, ok
}

// Relocate moves the piece on from to the empty square to, keeping its id.
func (r *Registry) Relocate(from, to nchess.Square) (PieceID, error) {
	id, ok := r.bySquare[from]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSquareEmpty, from)
	}
	if _, occupied := r.bySquare[to]; occupied {
		return "", fmt.Errorf("%w: %s", ErrSquareOccupied, to)
	}
	delete(r.bySquare, from)
	r.bySquare[to] = id
	return id, nil
}

// Capture removes the piece on sq from the board and appends it to the
// captor's tray, returning its deterministic rest slot.
func (r *Registry) Capture(sq nchess.Square, captor nchess.Color) (PieceID, RestSlot, error) {
	id, ok := r.bySquare[sq]
	if !ok {
		return "", RestSlot{}, fmt.Errorf("%w: %s", ErrSquareEmpty, sq)
	}
	delete(r.bySquare, sq)

	var n int
	if captor == nchess.White {
		r.capturedByWhite = append(r.capturedByWhite, id)
		n = len(r.capturedByWhite) - 1
	} else {
		r.capturedByBlack = append(r.capturedByBlack, id)
		n = len(r.capturedByBlack) - 1
	}
	slot := RestSlot{Side: captor, Row: n / restRowWidth, Col: n % restRowWidth}
	return id, slot, nil
}

// Promote retires the piece instance on sq and mints a new instance of the
// promoted kind at the same square. Visual representation differs per kind,
// so this is a replacement, not a mutation.
func (r *Registry) Promote(sq nchess.Square, kind nchess.PieceType) (retired, minted PieceID, err error) {
	old, ok := r.bySquare[sq]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrSquareEmpty, sq)
	}
	attr := r.attrs[old]
	delete(r.attrs, old)
	delete(r.bySquare, sq)

	id := PieceID(uuid.NewString())
	r.bySquare[sq] = id
	r.attrs[id] = Attributes{Kind: kind, Side: attr.Side}
	return old, id, nil
}

// Reset discards all current instances, including the captured trays, and
// re-instantiates the registry to match the given logical snapshot. The
// returned placements are ordered by square for deterministic emission.
func (r *Registry) Reset(snapshot map[nchess.Square]nchess.Piece) []Placement {
	r.bySquare = make(map[nchess.Square]PieceID, len(snapshot))
	r.attrs = make(map[PieceID]Attributes, len(snapshot))
	r.capturedByWhite = nil
	r.capturedByBlack = nil

	squares := make([]nchess.Square, 0, len(snapshot))
	for sq := range snapshot {
		squares = append(squares, sq)
	}
	sort.Slice(squares, func(i, j int) bool { return squares[i] < squares[j] })

	placements := make([]Placement, 0, len(squares))
	for _, sq := range squares {
		piece := snapshot[sq]
		id := PieceID(uuid.NewString())
		attr := Attributes{Kind: piece.Type(), Side: piece.Color()}
		r.bySquare[sq] = id
		r.attrs[id] = attr
		placements = append(placements, Placement{ID: id, Square: sq, Attr: attr})
	}
	return placements
}

// Snapshot reports the current coordinate→attributes mapping.
func (r *Registry) Snapshot() map[nchess.Square]Attributes {
	out := make(map[nchess.Square]Attributes, len(r.bySquare))
	for sq, id := range r.bySquare {
		out[sq] = r.attrs[id]
	}
	return out
}

// CapturedBy returns the ordered tray of pieces captured by the given side.
func (r *Registry) CapturedBy(captor nchess.Color) []PieceID {
	if captor == nchess.White {
		return append([]PieceID(nil), r.capturedByWhite...)
	}
	return append([]PieceID(nil), r.capturedByBlack...)
}

// OnBoardCount reports how many instances currently occupy board squares.
func (r *Registry) OnBoardCount() int { return len(r.bySquare) }
