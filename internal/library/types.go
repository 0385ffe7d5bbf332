package library

import "time"

// Game is one uploaded game record in the replay library.
type Game struct {
	ID         int64     `json:"-"` // archive row id, 0 until archived
	UUID       string    `json:"uuid"`
	Name       string    `json:"name"`
	PGN        string    `json:"pgn"`
	Result     string    `json:"result"`
	MoveCount  int       `json:"move_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}
