package replaydto

import "time"

// GameSummary is one library entry as listed to clients.
type GameSummary struct {
	UUID       string    `json:"uuid"`
	Name       string    `json:"name"`
	Result     string    `json:"result"`
	MoveCount  int       `json:"move_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}
