package analyticord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testBotToken  = "bot-token"
	testUserToken = "user-token"
)

type submission struct {
	EventType string
	Data      string
	Auth      string
}

// fakeAPI is an in-process Analyticord server that records submissions.
type fakeAPI struct {
	srv *httptest.Server

	calls       atomic.Int32
	submitCalls atomic.Int32

	mu          sync.Mutex
	submissions []submission
	loginStatus int
	// onSubmit, when set, handles /api/submit instead of the default success reply.
	onSubmit func(w http.ResponseWriter, r *http.Request, sub submission) bool
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{loginStatus: http.StatusOK}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) URL() string { return f.srv.URL }

func (f *fakeAPI) setLoginStatus(status int) {
	f.mu.Lock()
	f.loginStatus = status
	f.mu.Unlock()
}

func (f *fakeAPI) setOnSubmit(fn func(w http.ResponseWriter, r *http.Request, sub submission) bool) {
	f.mu.Lock()
	f.onSubmit = fn
	f.mu.Unlock()
}

func (f *fakeAPI) Submissions() []submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]submission(nil), f.submissions...)
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	switch r.URL.Path {
	case "/api/botLogin":
		f.mu.Lock()
		status := f.loginStatus
		f.mu.Unlock()
		if status != http.StatusOK {
			writeJSON(w, status, map[string]any{"error": "AuthFailed", "description": "Invalid token", "id": "7"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "42", "name": "testbot"})
	case "/api/submit":
		n := f.submitCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "DataValidationError"})
			return
		}
		sub := submission{
			EventType: r.PostForm.Get("eventType"),
			Data:      r.PostForm.Get("data"),
			Auth:      r.Header.Get("Authorization"),
		}
		f.mu.Lock()
		onSubmit := f.onSubmit
		f.mu.Unlock()
		if onSubmit != nil && onSubmit(w, r, sub) {
			return
		}
		f.mu.Lock()
		f.submissions = append(f.submissions, sub)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"ID": fmt.Sprintf("sub-%d", n)})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "NotAnError", "description": "no such endpoint"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{WithBaseURL(baseURL), WithLogger(zerolog.Nop())}, opts...)
	c, err := NewClient(testBotToken, all...)
	require.NoError(t, err)
	return c
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
