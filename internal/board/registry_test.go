package board

import (
	"testing"

	nchess "github.com/corentings/chess/v2"
)

func TestSpawnRelocateKeepsIdentity(t *testing.T) {
	r := NewRegistry()
	id, err := r.Spawn(nchess.E2, nchess.Pawn, nchess.White)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if _, err := r.Spawn(nchess.E2, nchess.Rook, nchess.White); err == nil {
		t.Fatalf("expected ErrSquareOccupied for double spawn")
	}

	moved, err := r.Relocate(nchess.E2, nchess.E4)
	if err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if moved != id {
		t.Fatalf("relocation changed identity: %s -> %s", id, moved)
	}
	if _, ok := r.At(nchess.E2); ok {
		t.Fatalf("origin square still occupied after relocation")
	}
	if got, _ := r.At(nchess.E4); got != id {
		t.Fatalf("destination square holds %s, want %s", got, id)
	}
}

func TestCaptureSlotsAreDeterministic(t *testing.T) {
	r := NewRegistry()
	// Ten black pawns captured by white: two rows of the tray.
	squares := []nchess.Square{
		nchess.A7, nchess.B7, nchess.C7, nchess.D7, nchess.E7,
		nchess.F7, nchess.G7, nchess.H7, nchess.A6, nchess.B6,
	}
	for _, sq := range squares {
		if _, err := r.Spawn(sq, nchess.Pawn, nchess.Black); err != nil {
			t.Fatalf("Spawn %s: %v", sq, err)
		}
	}

	seen := map[[2]int]bool{}
	for i, sq := range squares {
		_, slot, err := r.Capture(sq, nchess.White)
		if err != nil {
			t.Fatalf("Capture %s: %v", sq, err)
		}
		if slot.Side != nchess.White {
			t.Fatalf("slot side = %v, want white", slot.Side)
		}
		wantRow, wantCol := i/8, i%8
		if slot.Row != wantRow || slot.Col != wantCol {
			t.Fatalf("capture %d slot = (%d,%d), want (%d,%d)", i, slot.Row, slot.Col, wantRow, wantCol)
		}
		key := [2]int{slot.Row, slot.Col}
		if seen[key] {
			t.Fatalf("slot (%d,%d) assigned twice", slot.Row, slot.Col)
		}
		seen[key] = true
	}
	if got := len(r.CapturedBy(nchess.White)); got != len(squares) {
		t.Fatalf("captured tray length = %d, want %d", got, len(squares))
	}
	if r.OnBoardCount() != 0 {
		t.Fatalf("board not empty after captures: %d", r.OnBoardCount())
	}
}

func TestPromoteRetiresIdentity(t *testing.T) {
	r := NewRegistry()
	pawn, err := r.Spawn(nchess.B8, nchess.Pawn, nchess.White)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	retired, minted, err := r.Promote(nchess.B8, nchess.Queen)
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if retired != pawn {
		t.Fatalf("retired id = %s, want %s", retired, pawn)
	}
	if minted == pawn {
		t.Fatalf("promotion reused the pawn's identity")
	}
	if _, ok := r.Attributes(retired); ok {
		t.Fatalf("retired instance still has attributes")
	}
	attr, ok := r.Attributes(minted)
	if !ok || attr.Kind != nchess.Queen || attr.Side != nchess.White {
		t.Fatalf("minted attributes = %+v ok=%v", attr, ok)
	}
	if got, _ := r.At(nchess.B8); got != minted {
		t.Fatalf("b8 holds %s, want minted %s", got, minted)
	}
}

func TestResetDiscardsTraysAndMatchesSnapshot(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Spawn(nchess.D4, nchess.Pawn, nchess.Black); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if _, _, err := r.Capture(nchess.D4, nchess.White); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	snapshot := map[nchess.Square]nchess.Piece{
		nchess.E1: nchess.WhiteKing,
		nchess.E8: nchess.BlackKing,
		nchess.A1: nchess.WhiteRook,
	}
	placements := r.Reset(snapshot)
	if len(placements) != len(snapshot) {
		t.Fatalf("placements = %d, want %d", len(placements), len(snapshot))
	}
	if got := len(r.CapturedBy(nchess.White)); got != 0 {
		t.Fatalf("tray survived reset: %d", got)
	}
	got := r.Snapshot()
	for sq, piece := range snapshot {
		attr, ok := got[sq]
		if !ok || attr.Kind != piece.Type() || attr.Side != piece.Color() {
			t.Fatalf("square %s = %+v ok=%v, want %v", sq, attr, ok, piece)
		}
	}
}
