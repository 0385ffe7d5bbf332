package timeline

import (
	"errors"
	"testing"
)

const ruyLopezPGN = `[Event "Casual Game"]
[White "Amateur"]
[Black "Amateur"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1-0`

func TestParseBuildsTimeline(t *testing.T) {
	tl, err := Parse(ruyLopezPGN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tl.TotalMoves() != 6 {
		t.Fatalf("TotalMoves = %d, want 6", tl.TotalMoves())
	}
	if tl.FinalIndex() != 5 {
		t.Fatalf("FinalIndex = %d, want 5", tl.FinalIndex())
	}
	if tl.Result != ResultWhiteWon {
		t.Fatalf("Result = %q, want %q", tl.Result, ResultWhiteWon)
	}
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6"}
	for i, mv := range tl.Moves {
		if mv.Index != i {
			t.Fatalf("move %d carries index %d", i, mv.Index)
		}
		if mv.SAN != want[i] {
			t.Fatalf("move %d SAN = %q, want %q", i, mv.SAN, want[i])
		}
		if mv.IsCapture {
			t.Fatalf("move %d flagged as capture", i)
		}
	}
}

func TestParseFlagsCaptures(t *testing.T) {
	tl, err := Parse("1. e4 d5 2. exd5 Qxd5 1/2-1/2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tl.Result != ResultDraw {
		t.Fatalf("Result = %q, want %q", tl.Result, ResultDraw)
	}
	wantCapture := []bool{false, false, true, true}
	for i, mv := range tl.Moves {
		if mv.IsCapture != wantCapture[i] {
			t.Fatalf("move %d (%s) IsCapture = %v, want %v", i, mv.SAN, mv.IsCapture, wantCapture[i])
		}
	}
}

func TestParseOpenResult(t *testing.T) {
	tl, err := Parse("1. e4 e5 *")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tl.Result != ResultOpen {
		t.Fatalf("Result = %q, want %q", tl.Result, ResultOpen)
	}
}

func TestParseRejectsUnusableRecords(t *testing.T) {
	for _, text := range []string{"", "   \n  ", "this is not a game record"} {
		if _, err := Parse(text); !errors.Is(err, ErrNoTimeline) {
			t.Fatalf("Parse(%q) err = %v, want ErrNoTimeline", text, err)
		}
	}
}

func TestSANsPrefix(t *testing.T) {
	tl, err := Parse(ruyLopezPGN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := tl.SANs(-1); len(got) != 0 {
		t.Fatalf("SANs(-1) = %v, want empty", got)
	}
	got := tl.SANs(2)
	want := []string{"e4", "e5", "Nf3"}
	if len(got) != len(want) {
		t.Fatalf("SANs(2) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SANs(2) = %v, want %v", got, want)
		}
	}
	if got := tl.SANs(99); len(got) != tl.TotalMoves() {
		t.Fatalf("SANs past end = %d moves, want %d", len(got), tl.TotalMoves())
	}
}
