package download

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"vidrelay/internal/model"
	"vidrelay/internal/validate"
)

// State is a UI state for one submission. Loading is always reported
// before the terminal Success or Failure.
type State string

const (
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateFailure State = "failure"
)

// Outcome is the terminal result of a submission.
type Outcome struct {
	State   State
	Result  *model.DownloadResult // set when State is StateSuccess
	Message string                // set when State is StateFailure
}

// User-facing validation messages.
const (
	MsgEmptyURL      = "Please enter a valid URL"
	MsgInvalidSource = "Please enter a valid YouTube or TikTok URL"
)

// Recorder receives successful results. Satisfied by *history.Store.
type Recorder interface {
	Record(result model.DownloadResult) model.DownloadRecord
}

// Service drives a single download attempt: validate, one relay round
// trip, interpret the response, mirror successes into the history store.
// No retries and no resubmission guard; the UI disables the submit
// control while a request is in flight.
type Service struct {
	relayURL string
	client   *http.Client
	history  Recorder
}

// NewService wires an orchestrator to the relay endpoint. A nil client
// uses http.DefaultClient.
func NewService(relayURL string, client *http.Client, history Recorder) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{relayURL: relayURL, client: client, history: history}
}

// Submit runs one download attempt. onState, if non-nil, observes the
// sequential state transitions; the returned Outcome is always the last
// state reported.
func (s *Service) Submit(ctx context.Context, req model.DownloadRequest, onState func(State)) Outcome {
	notify := func(state State) {
		if onState != nil {
			onState(state)
		}
	}

	if req.URL == "" {
		return s.fail(notify, MsgEmptyURL)
	}
	if !validate.IsValidSource(req.URL) {
		return s.fail(notify, MsgInvalidSource)
	}

	notify(StateLoading)
	log.Infof("Submitting download: url=%s format=%s", req.URL, req.Format)

	body, err := json.Marshal(req)
	if err != nil {
		return s.fail(notify, err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.relayURL, bytes.NewReader(body))
	if err != nil {
		return s.fail(notify, err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return s.fail(notify, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return s.fail(notify, err.Error())
	}

	var result model.DownloadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return s.fail(notify, err.Error())
	}

	// Both a failing status and a 2xx body with success:false are
	// application failures.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.fail(notify, messageOr(result.Error, "Server error"))
	}
	if !result.Success {
		return s.fail(notify, messageOr(result.Error, "Download failed"))
	}

	if result.Platform == "" {
		result.Platform = validate.DetectPlatform(req.URL)
	}
	if s.history != nil {
		s.history.Record(result)
	}

	log.Infof("Download succeeded: title=%q platform=%s size=%.1fMB", result.Title, result.Platform, result.SizeMB)
	notify(StateSuccess)
	return Outcome{State: StateSuccess, Result: &result}
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

func (s *Service) fail(notify func(State), message string) Outcome {
	log.Warnf("Download failed: %s", message)
	notify(StateFailure)
	return Outcome{State: StateFailure, Message: message}
}
