package relay

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Handler forwards incoming requests verbatim to a single fixed upstream
// endpoint and mirrors the upstream status and JSON body back. The
// destination comes from server configuration only; nothing in the
// incoming request can change it, and the upstream URL itself is never
// echoed to callers.
type Handler struct {
	upstreamURL string
	client      *http.Client
}

// NewHandler creates a relay to the given upstream URL. A nil client uses
// http.DefaultClient.
func NewHandler(upstreamURL string, client *http.Client) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return &Handler{upstreamURL: upstreamURL, client: client}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.upstreamURL == "" {
		log.Error("Relay called without a configured upstream URL")
		writeError(w, http.StatusInternalServerError, "upstream API is not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, h.upstreamURL, bytes.NewReader(body))
	if err != nil {
		log.Errorf("Relay failed to build upstream request: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		log.Errorf("Relay upstream call failed: %v", err)
		writeError(w, http.StatusInternalServerError, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	upstreamBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorf("Relay failed to read upstream response: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read upstream response")
		return
	}

	log.Debugf("Relay forwarded %s, upstream answered %d (%d bytes)", r.Method, resp.StatusCode, len(upstreamBody))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(upstreamBody); err != nil {
		log.Warnf("Relay failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
