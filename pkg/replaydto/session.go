package replaydto

// SessionState is what the host UI reads about an open replay session.
type SessionState struct {
	GameUUID     string `json:"game_uuid"`
	TotalMoves   int    `json:"total_moves"`
	CurrentIndex int    `json:"current_index"`
	IsAtEnd      bool   `json:"is_at_end"`
	Result       string `json:"result"`
}
