package scene

import (
	"sync"

	nchess "github.com/corentings/chess/v2"

	"github.com/kapu/replayboard/internal/board"
)

// Command is the wire form of one sink call, suitable for JSON egress.
type Command struct {
	Op      string          `json:"op"`
	PieceID string          `json:"piece_id,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	Side    string          `json:"side,omitempty"`
	Square  string          `json:"square,omitempty"`
	Spec    *TransitionWire `json:"transition,omitempty"`
}

type TransitionWire struct {
	Kind       string    `json:"kind"`
	DelayMs    int64     `json:"delay_ms"`
	DurationMs int64     `json:"duration_ms"`
	ToSquare   string    `json:"to_square,omitempty"`
	ToRest     *RestWire `json:"to_rest,omitempty"`
	Height     float64   `json:"height,omitempty"`
}

type RestWire struct {
	Side string `json:"side"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// Recorder collects sink commands in call order. It backs both tests and the
// websocket egress, which drains batches after each reconciliation.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) append(c Command) {
	r.mu.Lock()
	r.commands = append(r.commands, c)
	r.mu.Unlock()
}

func (r *Recorder) Spawn(id board.PieceID, attr board.Attributes, at nchess.Square) {
	r.append(Command{
		Op:      "spawn",
		PieceID: string(id),
		Kind:    KindName(attr.Kind),
		Side:    SideName(attr.Side),
		Square:  at.String(),
	})
}

func (r *Recorder) Place(id board.PieceID, at nchess.Square) {
	r.append(Command{Op: "place", PieceID: string(id), Square: at.String()})
}

func (r *Recorder) Animate(id board.PieceID, spec TransitionSpec) {
	r.append(Command{Op: "animate", PieceID: string(id), Spec: wireSpec(spec)})
}

func (r *Recorder) Remove(id board.PieceID) {
	r.append(Command{Op: "remove", PieceID: string(id)})
}

func (r *Recorder) Decorate(side nchess.Color, spec TransitionSpec) {
	r.append(Command{Op: "decorate", Side: SideName(side), Spec: wireSpec(spec)})
}

func (r *Recorder) Clear() {
	r.append(Command{Op: "clear"})
}

// Commands returns a copy of everything recorded so far.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Drain returns the recorded commands and resets the buffer.
func (r *Recorder) Drain() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.commands
	r.commands = nil
	return out
}

func wireSpec(spec TransitionSpec) *TransitionWire {
	w := &TransitionWire{
		Kind:       string(spec.Kind),
		DelayMs:    spec.Delay.Milliseconds(),
		DurationMs: spec.Duration.Milliseconds(),
		Height:     spec.Height,
	}
	if spec.To != nil {
		if spec.To.Square != nil {
			w.ToSquare = spec.To.Square.String()
		}
		if spec.To.Rest != nil {
			w.ToRest = &RestWire{Side: SideName(spec.To.Rest.Side), Row: spec.To.Rest.Row, Col: spec.To.Rest.Col}
		}
	}
	return w
}
