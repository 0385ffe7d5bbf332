package scene

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/kapu/replayboard/internal/board"
)

func TestRenderPNGProducesDecodableImage(t *testing.T) {
	r := NewSnapshotRenderer(24)
	snapshot := map[nchess.Square]board.Attributes{
		nchess.E1: {Kind: nchess.King, Side: nchess.White},
		nchess.E8: {Kind: nchess.King, Side: nchess.Black},
		nchess.D4: {Kind: nchess.Knight, Side: nchess.White},
	}
	data, err := r.RenderPNG(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	want := 24*8 + 18*2
	if b := img.Bounds(); b.Dx() != want || b.Dy() != want {
		t.Fatalf("thumbnail bounds = %v, want %dx%d", b, want, want)
	}
}

func TestRenderPNGEmptyBoard(t *testing.T) {
	r := NewSnapshotRenderer(16)
	data, err := r.RenderPNG(context.Background(), nil)
	if err != nil {
		t.Fatalf("RenderPNG on empty board: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRenderPNGHonorsCancelledContext(t *testing.T) {
	r := NewSnapshotRenderer(16)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RenderPNG(ctx, nil); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestPieceSpriteCacheCoversAllKinds(t *testing.T) {
	kinds := []nchess.PieceType{nchess.King, nchess.Queen, nchess.Rook, nchess.Bishop, nchess.Knight, nchess.Pawn}
	for _, side := range []nchess.Color{nchess.White, nchess.Black} {
		for _, kind := range kinds {
			sprite, err := renderPieceSprite(board.Attributes{Kind: kind, Side: side}, 32)
			if err != nil {
				t.Fatalf("sprite %s %s: %v", SideName(side), KindName(kind), err)
			}
			if sprite.Bounds().Dx() != 32 {
				t.Fatalf("sprite width = %d, want 32", sprite.Bounds().Dx())
			}
		}
	}
}
