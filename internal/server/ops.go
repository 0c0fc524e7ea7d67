package server

import (
	"net/http"
	"net/mail"
)

// reportRequest is the payload for requesting a statistics report.
type reportRequest struct {
	Recipient string `json:"recipient"`
}

// handleRequestReport enqueues a seller statistics report. The report
// is generated and sent asynchronously; the response only acknowledges
// the request.
func (s *server) handleRequestReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Reports == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse("reporting is disabled"))
		return
	}
	var req reportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := mail.ParseAddress(req.Recipient); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid recipient address"))
		return
	}

	s.deps.Reports.Request(req.Recipient)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":    "queued",
		"recipient": req.Recipient,
	})
}

// handlePurgeCache drops every cached entry.
func (s *server) handlePurgeCache(w http.ResponseWriter, r *http.Request) {
	if s.deps.Cache == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse("caching is disabled"))
		return
	}
	s.deps.Cache.Purge(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "purged"})
}
