package replaydto

type ErrorResponse struct {
	Error string `json:"error"`
}
