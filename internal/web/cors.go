package web

import "net/http"

const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// setCorsRespHeaders adds the fixed permissive policy. It is applied to every
// relay and price response, including errors.
func setCorsRespHeaders(headers http.Header) {
	headers.Set("Access-Control-Allow-Origin", corsAllowOrigin)
	headers.Set("Access-Control-Allow-Methods", corsAllowMethods)
	headers.Set("Access-Control-Allow-Headers", corsAllowHeaders)
}

// handlePreflight answers CORS preflight requests for the local price routes.
func handlePreflight(w http.ResponseWriter, r *http.Request) {
	setCorsRespHeaders(w.Header())
	w.WriteHeader(http.StatusNoContent)
}
