package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"vidrelay/internal/config"
	"vidrelay/internal/download"
	"vidrelay/internal/history"
	"vidrelay/internal/model"
	"vidrelay/internal/validate"
)

type Handler struct {
	config     *config.Config
	history    *history.Store
	downloader *download.Service
}

func NewHandler(cfg *config.Config, store *history.Store, downloader *download.Service) *Handler {
	return &Handler{
		config:     cfg,
		history:    store,
		downloader: downloader,
	}
}

// GetConfig exposes the non-secret configuration. The upstream
// destination is redacted; callers only learn whether it is set.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.config.Redacted())
}

// SubmitDownload runs one download attempt through the orchestrator and
// maps its outcome onto the HTTP surface.
func (h *Handler) SubmitDownload(w http.ResponseWriter, r *http.Request) {
	var request model.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Warnf("[API] SubmitDownload: invalid JSON: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	if h.downloader == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Download service not initialized"})
		return
	}

	log.Infof("[API] SubmitDownload request: URL=%s, Format=%s", request.URL, request.Format)

	outcome := h.downloader.Submit(r.Context(), request, nil)
	switch outcome.State {
	case download.StateSuccess:
		writeJSON(w, http.StatusOK, outcome.Result)
	default:
		status := http.StatusBadGateway
		if outcome.Message == download.MsgEmptyURL || outcome.Message == download.MsgInvalidSource {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": outcome.Message})
	}
}

// ValidateURL answers the live input check without touching the network.
func (h *Handler) ValidateURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		URL string `json:"url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	valid := validate.IsValidSource(request.URL)
	response := map[string]interface{}{
		"valid": valid,
	}
	if valid {
		response["platform"] = validate.DetectPlatform(request.URL)
		if thumb := validate.ThumbnailURL(request.URL); thumb != "" {
			response["thumbnail"] = thumb
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "History store not initialized"})
		return
	}

	writeJSON(w, http.StatusOK, h.history.Load())
}

func (h *Handler) DeleteHistoryItem(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "History store not initialized"})
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "History id is required"})
		return
	}

	h.history.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// ClearHistory wipes the whole history. The UI asks the user to confirm
// before calling this.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "History store not initialized"})
		return
	}

	h.history.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warnf("[API] Failed to encode response: %v", err)
	}
}
