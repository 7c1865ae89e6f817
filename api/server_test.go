package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenwave/medassist"
	"github.com/tenwave/medassist/schema"
)

// fakeAssistant is an in-memory Assistant double.
type fakeAssistant struct {
	sessions map[string]*medassist.Session
	chatErr  error
	lastChat struct {
		sessionID, question, category string
	}
	searchErr     error
	searchResults []schema.SearchResult
}

func newFakeAssistant() *fakeAssistant {
	return &fakeAssistant{sessions: map[string]*medassist.Session{}}
}

func (f *fakeAssistant) NewSession(category string) *medassist.Session {
	s := &medassist.Session{
		ID:          fmt.Sprintf("sess-%d", len(f.sessions)+1),
		Category:    category,
		Suggestions: []string{"How do I check a patient record?"},
	}
	f.sessions[s.ID] = s
	return s
}

func (f *fakeAssistant) GetSession(id string) (*medassist.Session, bool) {
	s, ok := f.sessions[id]
	return s, ok
}

func (f *fakeAssistant) DeleteSession(id string) bool {
	if _, ok := f.sessions[id]; !ok {
		return false
	}
	delete(f.sessions, id)
	return true
}

func (f *fakeAssistant) ResetSession(id string) bool {
	s, ok := f.sessions[id]
	if !ok {
		return false
	}
	s.Messages = nil
	return true
}

func (f *fakeAssistant) ListSessions() []*medassist.Session {
	out := make([]*medassist.Session, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s)
	}
	return out
}

func (f *fakeAssistant) Chat(_ context.Context, sessionID, question, category string) (*medassist.TurnResult, error) {
	f.lastChat.sessionID = sessionID
	f.lastChat.question = question
	f.lastChat.category = category
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	tr := &medassist.TurnResult{SessionID: sessionID, DisplayResponse: "answer"}
	tr.Response = "answer"
	tr.Citations = []string{"docs/guide.pdf"}
	return tr, nil
}

func (f *fakeAssistant) Search(_ context.Context, query, category string, limit int) ([]schema.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults, nil
}

func newTestServer(t *testing.T, assist Assistant) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(assist).Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return res
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, newFakeAssistant())

	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
		res.Body.Close()
	}
}

func TestSessionLifecycle(t *testing.T) {
	fake := newFakeAssistant()
	ts := newTestServer(t, fake)

	res := postJSON(t, ts.URL+"/v1/sessions", map[string]string{"category": "Lab Reports"})
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created medassist.Session
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Lab Reports", created.Category)
	assert.NotEmpty(t, created.Suggestions)

	got, err := http.Get(ts.URL + "/v1/sessions/" + created.ID)
	require.NoError(t, err)
	got.Body.Close()
	assert.Equal(t, http.StatusOK, got.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/sessions/"+created.ID, nil)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	gone, err := http.Get(ts.URL + "/v1/sessions/" + created.ID)
	require.NoError(t, err)
	gone.Body.Close()
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
}

func TestResetSessionNotFound(t *testing.T) {
	ts := newTestServer(t, newFakeAssistant())

	res := postJSON(t, ts.URL+"/v1/sessions/nope/reset", nil)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPostMessage(t *testing.T) {
	fake := newFakeAssistant()
	sess := fake.NewSession("ALL")
	ts := newTestServer(t, fake)

	res := postJSON(t, ts.URL+"/v1/sessions/"+sess.ID+"/messages", map[string]string{
		"question": "Where are discharge summaries stored?",
	})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var turn medassist.TurnResult
	require.NoError(t, json.NewDecoder(res.Body).Decode(&turn))
	assert.Equal(t, sess.ID, turn.SessionID)
	assert.Equal(t, "answer", turn.DisplayResponse)
	assert.Equal(t, "Where are discharge summaries stored?", fake.lastChat.question)
}

func TestPostMessageValidation(t *testing.T) {
	fake := newFakeAssistant()
	sess := fake.NewSession("ALL")
	ts := newTestServer(t, fake)

	res := postJSON(t, ts.URL+"/v1/sessions/"+sess.ID+"/messages", map[string]string{"question": "  "})
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = postJSON(t, ts.URL+"/v1/sessions/missing/messages", map[string]string{"question": "hi?"})
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPostMessageUpstreamFailure(t *testing.T) {
	fake := newFakeAssistant()
	sess := fake.NewSession("ALL")
	fake.chatErr = errors.New("completion call failed")
	ts := newTestServer(t, fake)

	res := postJSON(t, ts.URL+"/v1/sessions/"+sess.ID+"/messages", map[string]string{"question": "hi?"})
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)

	var e struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&e))
	assert.Equal(t, "turn_failed", e.Code)
	assert.Contains(t, e.Error, "completion call failed")
}

func TestSearch(t *testing.T) {
	fake := newFakeAssistant()
	fake.searchResults = []schema.SearchResult{
		{Chunk: "c1", RelativePath: "docs/a.pdf"},
		{Chunk: "c2", RelativePath: "docs/b.pdf"},
	}
	ts := newTestServer(t, fake)

	res := postJSON(t, ts.URL+"/v1/search", map[string]any{"query": "visiting hours", "limit": 5})
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Results []schema.SearchResult `json:"results"`
		Count   int                   `json:"count"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Results, 2)

	res = postJSON(t, ts.URL+"/v1/search", map[string]string{"query": ""})
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
