package dto

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
