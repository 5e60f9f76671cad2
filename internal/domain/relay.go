package domain

import (
	"net/http"
	"time"
)

// RelayRequest is an inbound call to be forwarded to the backend.
type RelayRequest struct {
	ID       string
	Method   string
	Path     string // escaped path, including the /api/ prefix
	RawQuery string
	Header   http.Header
	Body     []byte
}

// RelayResponse is what the forwarder hands back to the HTTP layer.
type RelayResponse struct {
	StatusCode  int
	StatusText  string
	ContentType string
	Body        []byte
}

// RelayError is the JSON body written when the backend cannot be reached.
type RelayError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Backend string `json:"backend,omitempty"`
}

// ClaimRecord is one relayed claim request, kept for auditing.
type ClaimRecord struct {
	ID         int64     `json:"id"`
	Address    string    `json:"address"`
	Backend    string    `json:"backend"`
	StatusCode int       `json:"status_code"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
