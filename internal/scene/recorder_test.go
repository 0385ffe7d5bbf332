package scene

import (
	"testing"
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/kapu/replayboard/internal/board"
)

func TestRecorderPreservesCallOrder(t *testing.T) {
	rec := NewRecorder()
	rec.Clear()
	rec.Spawn("p1", board.Attributes{Kind: nchess.Pawn, Side: nchess.White}, nchess.E2)
	rec.Place("p1", nchess.E2)
	rec.Animate("p1", TransitionSpec{Kind: Slide, Duration: 450 * time.Millisecond, To: SquareTarget(nchess.E4)})
	rec.Remove("p1")
	rec.Decorate(nchess.Black, TransitionSpec{Kind: Crown})

	cmds := rec.Commands()
	wantOps := []string{"clear", "spawn", "place", "animate", "remove", "decorate"}
	if len(cmds) != len(wantOps) {
		t.Fatalf("recorded %d commands, want %d", len(cmds), len(wantOps))
	}
	for i, op := range wantOps {
		if cmds[i].Op != op {
			t.Fatalf("command %d op = %q, want %q", i, cmds[i].Op, op)
		}
	}

	spawn := cmds[1]
	if spawn.Kind != "pawn" || spawn.Side != "white" || spawn.Square != "e2" {
		t.Fatalf("spawn wire form = %+v", spawn)
	}
	if cmds[2].Square != "e2" {
		t.Fatalf("place square = %q, want e2", cmds[2].Square)
	}
	animate := cmds[3]
	if animate.Spec == nil || animate.Spec.Kind != "slide" || animate.Spec.ToSquare != "e4" || animate.Spec.DurationMs != 450 {
		t.Fatalf("animate wire form = %+v", animate.Spec)
	}
	if cmds[5].Side != "black" {
		t.Fatalf("decorate side = %q, want black", cmds[5].Side)
	}
}

func TestRecorderDrainResets(t *testing.T) {
	rec := NewRecorder()
	rec.Clear()
	if got := len(rec.Drain()); got != 1 {
		t.Fatalf("first drain = %d commands, want 1", got)
	}
	if got := len(rec.Drain()); got != 0 {
		t.Fatalf("second drain = %d commands, want 0", got)
	}
}

func TestRestTargetWireForm(t *testing.T) {
	rec := NewRecorder()
	slot := board.RestSlot{Side: nchess.White, Row: 1, Col: 3}
	rec.Animate("victim", TransitionSpec{
		Kind:     Travel,
		Delay:    120 * time.Millisecond,
		Duration: 320 * time.Millisecond,
		To:       RestTarget(slot),
	})
	cmds := rec.Commands()
	if len(cmds) != 1 || cmds[0].Spec == nil {
		t.Fatalf("commands = %+v", cmds)
	}
	spec := cmds[0].Spec
	if spec.DelayMs != 120 || spec.ToSquare != "" {
		t.Fatalf("travel wire form = %+v", spec)
	}
	if spec.ToRest == nil || spec.ToRest.Side != "white" || spec.ToRest.Row != 1 || spec.ToRest.Col != 3 {
		t.Fatalf("rest target = %+v", spec.ToRest)
	}
}
