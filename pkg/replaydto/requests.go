package replaydto

// UploadRequest carries one PGN record into the library.
type UploadRequest struct {
	Name string `json:"name"`
	PGN  string `json:"pgn"`
}

type UploadResponse struct {
	Game GameSummary `json:"game"`
}

type ListResponse struct {
	Games []GameSummary `json:"games"`
}

// ClientOp is one inbound message on a replay session stream.
// Ops: "load" (GameUUID), "seek" (Index), "reset", "ready".
type ClientOp struct {
	Op       string `json:"op"`
	GameUUID string `json:"game_uuid,omitempty"`
	Index    int    `json:"index,omitempty"`
}
