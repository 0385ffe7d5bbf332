package scene

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kapu/replayboard/internal/board"
)

var (
	lightSquare = color.RGBA{R: 0xEC, G: 0xD8, B: 0xB9, A: 0xFF}
	darkSquare  = color.RGBA{R: 0xA9, G: 0x7C, B: 0x50, A: 0xFF}
	marginFill  = color.RGBA{R: 0x2B, G: 0x26, B: 0x21, A: 0xFF}
	labelColor  = color.RGBA{R: 0xD8, G: 0xD0, B: 0xC4, A: 0xFF}
)

// SnapshotRenderer draws a registry snapshot to a PNG, used for library
// thumbnails. It has no temporal behavior; animation never passes through it.
type SnapshotRenderer struct {
	squareSize int
}

func NewSnapshotRenderer(squareSize int) *SnapshotRenderer {
	if squareSize < 16 {
		squareSize = 16
	}
	return &SnapshotRenderer{squareSize: squareSize}
}

// RenderPNG renders the given coordinate→attributes snapshot.
func (r *SnapshotRenderer) RenderPNG(ctx context.Context, snapshot map[nchess.Square]board.Attributes) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	sq := r.squareSize
	const margin = 18
	boardSize := sq * 8
	total := boardSize + margin*2

	img := image.NewRGBA(image.Rect(0, 0, total, total))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(marginFill), image.Point{}, imagedraw.Src)

	origin := image.Point{X: margin, Y: margin}
	for file := nchess.FileA; file <= nchess.FileH; file++ {
		for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
			x := origin.X + int(file)*sq
			y := origin.Y + (7-int(rank))*sq
			fill := lightSquare
			if (int(file)+int(rank))%2 == 0 {
				fill = darkSquare
			}
			imagedraw.Draw(img, image.Rect(x, y, x+sq, y+sq), image.NewUniform(fill), image.Point{}, imagedraw.Src)

			attr, occupied := snapshot[nchess.NewSquare(file, rank)]
			if !occupied {
				continue
			}
			sprite, err := renderPieceSprite(attr, sq)
			if err != nil {
				return nil, fmt.Errorf("render sprite: %w", err)
			}
			imagedraw.Draw(img, image.Rect(x, y, x+sq, y+sq), sprite, image.Point{}, imagedraw.Over)
		}
	}

	drawCoordinateLabels(img, origin, sq, margin)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCoordinateLabels(img *image.RGBA, origin image.Point, sq, margin int) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
	}
	for i := 0; i < 8; i++ {
		fileLabel := string(rune('a' + i))
		drawer.Dot = fixed.P(origin.X+i*sq+sq/2-3, origin.Y+8*sq+margin-4)
		drawer.DrawString(fileLabel)

		rankLabel := string(rune('1' + i))
		drawer.Dot = fixed.P(4, origin.Y+(7-i)*sq+sq/2+4)
		drawer.DrawString(rankLabel)
	}
}
