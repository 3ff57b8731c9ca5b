package rsvpclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/stretchr/testify/require"
)

const (
	adminPassword = "letmein"
	adminToken    = "tok-1"
)

var serverNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// fakeAPI speaks the same envelope as the real server.
type fakeAPI struct {
	t *testing.T

	mu       sync.Mutex
	rows     []rsvp.Submission
	received []map[string]any
	writes   atomic.Int32
	reads    atomic.Int32

	// listHook, when set, runs before a list response is written.
	listHook func(call int32)
	failList atomic.Bool
	// stall, when set, holds reads and writes until the caller gives up.
	stall    atomic.Bool
	expires  time.Time
	url      string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()

	api := &fakeAPI{t: t, expires: serverNow.Add(time.Hour)}
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)
	api.url = srv.URL

	client, err := New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return api, client
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": status, "message": message, "data": data})
}

func (a *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/submissions", func(w http.ResponseWriter, r *http.Request) {
		a.writes.Add(1)
		a.hold(r)

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeEnvelope(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}

		a.mu.Lock()
		defer a.mu.Unlock()
		a.received = append(a.received, body)

		if body["name"] == "boom" {
			writeEnvelope(w, http.StatusInternalServerError, "", nil)
			return
		}

		row := rsvp.Submission{
			ID:        "sub-" + string(rune('a'+len(a.rows))),
			Name:      body["name"].(string),
			Email:     body["email"].(string),
			Code:      body["code"].(string),
			Veg:       int(body["veg"].(float64)),
			NonVeg:    int(body["nonVeg"].(float64)),
			CreatedAt: serverNow.Add(time.Duration(len(a.rows)) * time.Minute),
		}
		a.rows = append(a.rows, row)
		writeEnvelope(w, http.StatusCreated, "Submission created successfully", row)
	})

	mux.HandleFunc("GET /v1/submissions", func(w http.ResponseWriter, r *http.Request) {
		call := a.reads.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+adminToken {
			writeEnvelope(w, http.StatusUnauthorized, "Session expired or invalid", nil)
			return
		}
		a.mu.Lock()
		hook := a.listHook
		a.mu.Unlock()
		if hook != nil {
			hook(call)
		}
		a.hold(r)
		if a.failList.Load() {
			writeEnvelope(w, http.StatusInternalServerError, "An unexpected error occurred", nil)
			return
		}

		a.mu.Lock()
		rows := append([]rsvp.Submission(nil), a.rows...)
		a.mu.Unlock()
		writeEnvelope(w, http.StatusOK, "Submissions retrieved successfully", rows)
	})

	mux.HandleFunc("POST /v1/admin/session", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != adminPassword {
			writeEnvelope(w, http.StatusUnauthorized, "Incorrect password. Please try again.", nil)
			return
		}
		writeEnvelope(w, http.StatusCreated, "Session created successfully", map[string]any{
			"token":     adminToken,
			"issuedAt":  serverNow.Format(time.RFC3339),
			"expiresAt": a.expires.Format(time.RFC3339),
		})
	})

	mux.HandleFunc("DELETE /v1/admin/session", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "Logged out", nil)
	})

	return mux
}

func (a *fakeAPI) hold(r *http.Request) {
	if !a.stall.Load() {
		return
	}
	select {
	case <-r.Context().Done():
	case <-time.After(5 * time.Second):
	}
}

// clientWithTimeout talks to the same fake server with its own request timeout.
func (a *fakeAPI) clientWithTimeout(timeout time.Duration) *Client {
	a.t.Helper()

	client, err := New(Config{BaseURL: a.url, Timeout: timeout})
	require.NoError(a.t, err)
	return client
}

func (a *fakeAPI) onList(hook func(call int32)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listHook = hook
}

func (a *fakeAPI) bodies() []map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]map[string]any(nil), a.received...)
}

func (a *fakeAPI) seed(rows ...rsvp.Submission) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rows = append(a.rows, rows...)
}
