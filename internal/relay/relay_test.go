package relay

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRelayForwardsMethodAndBody(t *testing.T) {
	var gotMethod, gotBody, gotContentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotMethod = r.Method
		gotBody = string(body)
		gotContentType = r.Header.Get("Content-Type")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"title":"Demo"}`))
	}))
	defer upstream.Close()

	handler := NewHandler(upstream.URL, nil)

	payload := `{"url":"https://www.youtube.com/watch?v=abc123","format":"mp4"}`
	req := httptest.NewRequest("POST", "/api/relay", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotMethod != "POST" {
		t.Errorf("Expected POST forwarded, got %s", gotMethod)
	}
	if gotBody != payload {
		t.Errorf("Expected body forwarded verbatim, got %s", gotBody)
	}
	if gotContentType != "application/json" {
		t.Errorf("Expected JSON content type upstream, got %s", gotContentType)
	}
	if w.Body.String() != `{"success":true,"title":"Demo"}` {
		t.Errorf("Expected upstream body mirrored, got %s", w.Body.String())
	}
}

func TestRelayMirrorsUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"conversion failed"}`))
	}))
	defer upstream.Close()

	handler := NewHandler(upstream.URL, nil)

	req := httptest.NewRequest("POST", "/api/relay", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502 mirrored, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"conversion failed"}` {
		t.Errorf("Expected error body mirrored, got %s", w.Body.String())
	}
}

func TestRelayUnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // nothing listening anymore

	handler := NewHandler(upstream.URL, nil)

	req := httptest.NewRequest("POST", "/api/relay", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["error"] == "" {
		t.Error("Expected an error message in the response")
	}
}

func TestRelayUnconfiguredUpstream(t *testing.T) {
	handler := NewHandler("", nil)

	req := httptest.NewRequest("POST", "/api/relay", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}
