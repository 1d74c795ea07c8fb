package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/chat"
	"github.com/abhisek/grammarstudio/internal/lessons"
	"github.com/abhisek/grammarstudio/internal/llm"
	"github.com/abhisek/grammarstudio/internal/spelling"
	"github.com/abhisek/grammarstudio/internal/studio"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const lessonJSON = `{
	"explanation": "Verbs are action words.",
	"examples": ["The rocket launched.", "Water boils.", "Magnets attract."],
	"tips": ["Every sentence needs a verb.", "Check the tense."],
	"comicDialogue": "Captain Syntax: Act! The Typo: Nope. Professor Punctuation: Period.",
	"professorTip": "End commands with a period or an exclamation mark.",
	"quiz": [
		{"question": "Which is a verb?", "options": ["jump", "tree", "red", "slowly"], "correctAnswer": "jump", "explanation": "Jump is an action."},
		{"question": "Which is a verb?", "options": ["cat", "sing", "blue", "soft"], "correctAnswer": "sing", "explanation": "Sing is an action."},
		{"question": "Which is a verb?", "options": ["loud", "chair", "run", "happy"], "correctAnswer": "run", "explanation": "Run is an action."}
	]
}`

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type testEnv struct {
	srv  *Server
	mock *llm.MockProvider
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()
	mock := llm.NewMockProvider()
	newStudio := func() *studio.Studio {
		return studio.New(studio.Deps{
			Lessons:   lessons.NewService(mock, lessons.DefaultConfig()),
			Responder: chat.NewLLMResponder(mock, chat.DefaultConfig()),
			Checker:   spelling.NewLLMChecker(mock, spelling.DefaultConfig()),
			Images:    mock,
		})
	}
	srv := New(cfg, catalog.Default(), newStudio, nil)
	srv.handler.background = func(fn func()) { fn() }
	return &testEnv{srv: srv, mock: mock}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.srv.Engine.ServeHTTP(w, req)
	return w
}

// unlocked opens a session and moves it to the dashboard.
func (e *testEnv) unlocked(t *testing.T) string {
	t.Helper()
	base := "/api/sessions/" + e.session(t)
	w := e.do(t, http.MethodPost, base+"/unlock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return base
}

func (e *testEnv) session(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var v SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "locked", v.Mode)
	return v.ID.String()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Error.Code
}

func TestHealthCheck(t *testing.T) {
	e := newTestEnv(t, Config{})
	w := e.do(t, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestListTopics(t *testing.T) {
	e := newTestEnv(t, Config{})
	w := e.do(t, http.MethodGet, "/api/topics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Topics []struct {
			ID    string `json:"id"`
			Step  int    `json:"step"`
			Color string `json:"color"`
		} `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Topics, 6)
	assert.Equal(t, "nouns", body.Topics[0].ID)
	assert.Equal(t, "#FACC15", body.Topics[0].Color)
}

func TestSessionLifecycle(t *testing.T) {
	e := newTestEnv(t, Config{})
	id := e.session(t)
	base := "/api/sessions/" + id

	w := e.do(t, http.MethodPost, base+"/home", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", errorCode(t, w))

	w = e.do(t, http.MethodPost, base+"/unlock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "dashboard", body["mode"])
	assert.Equal(t, "READY!", body["fx"])

	w = e.do(t, http.MethodPost, base+"/unlock", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPost, base+"/lock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "locked", decode(t, w)["mode"])

	w = e.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "locked", decode(t, w)["mode"])
}

func TestSessionNotFound(t *testing.T) {
	e := newTestEnv(t, Config{})

	w := e.do(t, http.MethodGet, "/api/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_session_id", errorCode(t, w))

	w = e.do(t, http.MethodGet, "/api/sessions/6f1c1d2e-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session_not_found", errorCode(t, w))
}

func TestMissionAndQuiz(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(lessonJSON)})
	id := e.session(t)
	base := "/api/sessions/" + id

	w := e.do(t, http.MethodPost, base+"/missions", gin.H{"topic_id": "verbs"})
	assert.Equal(t, http.StatusConflict, w.Code)

	e.do(t, http.MethodPost, base+"/unlock", nil)

	w = e.do(t, http.MethodPost, base+"/missions", gin.H{"topic_id": "adverbs"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPost, base+"/missions", gin.H{"topic_id": "verbs"})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "mission", decode(t, w)["mode"])

	w = e.do(t, http.MethodGet, base+"/mission", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mission := decode(t, w)
	assert.Equal(t, "ready", mission["status"])
	lesson := mission["lesson"].(map[string]any)
	assert.Equal(t, "Verbs are action words.", lesson["explanation"])

	w = e.do(t, http.MethodPost, base+"/quiz/select", gin.H{"option": "jump"})
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodPost, base+"/quiz/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	quiz := decode(t, w)["quiz"].(map[string]any)
	assert.Equal(t, float64(1), quiz["score"])
	assert.Equal(t, "BOOM! CORRECT!", quiz["feedback"])

	w = e.do(t, http.MethodPost, base+"/quiz/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["applied"])

	w = e.do(t, http.MethodPost, base+"/quiz/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	quiz = decode(t, w)["quiz"].(map[string]any)
	assert.Equal(t, float64(1), quiz["currentIndex"])

	w = e.do(t, http.MethodPost, base+"/quiz/restart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	quiz = decode(t, w)["quiz"].(map[string]any)
	assert.Equal(t, float64(0), quiz["score"])

	w = e.do(t, http.MethodGet, base+"/chat", nil)
	var turns struct {
		Turns []chat.Turn `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &turns))
	require.Len(t, turns.Turns, 2)
	assert.Equal(t, "WHAM! Let's master Action Verbs for Science missions!", turns.Turns[1].Text)
}

func TestMissionFailure(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.mock.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	base := "/api/sessions/" + e.session(t)
	e.do(t, http.MethodPost, base+"/unlock", nil)

	e.do(t, http.MethodPost, base+"/missions", gin.H{"topic_id": "nouns"})
	w := e.do(t, http.MethodGet, base+"/mission", nil)
	body := decode(t, w)
	assert.Equal(t, "failed", body["status"])
	assert.Nil(t, body["lesson"])

	w = e.do(t, http.MethodPost, base+"/quiz/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "no_quiz", errorCode(t, w))
}

func TestChat(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{"speaker":"mentor","text":"Semicolons unite!"}`)})
	e.mock.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	base := e.unlocked(t)

	w := e.do(t, http.MethodPost, base+"/chat", gin.H{"text": "   "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["reply"])

	w = e.do(t, http.MethodPost, base+"/chat", gin.H{"text": "semicolons?"})
	require.Equal(t, http.StatusOK, w.Code)
	reply := decode(t, w)["reply"].(map[string]any)
	assert.Equal(t, "assistant-mentor", reply["role"])

	w = e.do(t, http.MethodPost, base+"/chat", gin.H{"text": "again?"})
	reply = decode(t, w)["reply"].(map[string]any)
	assert.Equal(t, chat.Fallback, reply["text"])
	assert.Equal(t, "assistant-hero", reply["role"])
}

func TestSpelling(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{"correctedText":"The cat sat.","errorsFound":true,"explanation":"Fixed sat."}`)})
	e.mock.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	base := e.unlocked(t)

	w := e.do(t, http.MethodPost, base+"/spelling", gin.H{"text": "The cat sed"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["updated"])
	assert.Equal(t, "The cat sat.", body["result"].(map[string]any)["correctedText"])

	w = e.do(t, http.MethodPost, base+"/spelling", gin.H{"text": "Helo"})
	body = decode(t, w)
	assert.Equal(t, false, body["updated"])
	assert.Equal(t, "The cat sed", body["text"])
}

func multipartPhoto(t *testing.T, image []byte, instruction string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if image != nil {
		fw, err := mw.CreateFormFile("image", "hero.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("instruction", instruction))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) postPhoto(t *testing.T, path string, image []byte, instruction string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartPhoto(t, image, instruction)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	e.srv.Engine.ServeHTTP(w, req)
	return w
}

func TestPhotoLab(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.mock.AddImage(llm.MockImage{Data: pngHeader, MIMEType: "image/png"})
	e.mock.AddImage(llm.MockImage{})
	base := e.unlocked(t)

	w := e.postPhoto(t, base+"/photolab", pngHeader, "add a cape")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["edited"])
	assert.Equal(t, "image/png", body["mimeType"])
	assert.Contains(t, body["dataURI"], "data:image/png;base64,")

	w = e.postPhoto(t, base+"/photolab", pngHeader, "add a mask")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "POW! Something went wrong with the photo lab processing!", env.Error.Message)

	w = e.postPhoto(t, base+"/photolab", pngHeader, "  ")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["edited"])

	w = e.postPhoto(t, base+"/photolab", nil, "cape")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["edited"])

	w = e.postPhoto(t, base+"/photolab", []byte("plain text, not a picture"), "cape")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	assert.Equal(t, 2, e.mock.ImageCallCount())
}

func TestRateLimit(t *testing.T) {
	e := newTestEnv(t, Config{RateLimit: 1, Burst: 1})
	e.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{"speaker":"hero","text":"hi"}`)})
	base := e.unlocked(t)

	w := e.do(t, http.MethodPost, base+"/chat", gin.H{"text": "one"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, base+"/chat", gin.H{"text": "two"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", errorCode(t, w))

	// Non-AI routes are not limited.
	w = e.do(t, http.MethodGet, base+"/chat", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t, Config{AllowedOrigins: []string{"http://localhost:5173"}})
	req := httptest.NewRequest(http.MethodOptions, "/api/topics", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	e.srv.Engine.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEnv(t, Config{})
	w := e.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))
}

func TestSessions_Eviction(t *testing.T) {
	now := time.Now()
	s := NewSessions(func() *studio.Studio { return studio.New(studio.Deps{}) }, 0, 0, time.Minute)
	s.now = func() time.Time { return now }

	first := s.Create()
	now = now.Add(2 * time.Minute)
	s.Create()

	assert.Equal(t, 1, s.Len())
	_, err := s.Get(first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestViewGating(t *testing.T) {
	e := newTestEnv(t, Config{})
	e.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(lessonJSON)})
	base := e.unlocked(t)

	w := e.do(t, http.MethodGet, base+"/mission", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "inactive_view", errorCode(t, w))

	w = e.do(t, http.MethodPost, base+"/missions", gin.H{"topic_id": "verbs"})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.NotNil(t, decode(t, w)["mission"])

	w = e.do(t, http.MethodPost, base+"/lock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode(t, w)["mission"])

	lockedCalls := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/mission", nil},
		{http.MethodPost, "/quiz/select", gin.H{"option": "jump"}},
		{http.MethodPost, "/quiz/submit", nil},
		{http.MethodPost, "/quiz/next", nil},
		{http.MethodPost, "/quiz/restart", nil},
		{http.MethodGet, "/chat", nil},
		{http.MethodPost, "/chat", gin.H{"text": "hello"}},
		{http.MethodPost, "/spelling", gin.H{"text": "helo"}},
	}
	for _, call := range lockedCalls {
		w = e.do(t, call.method, base+call.path, call.body)
		assert.Equal(t, http.StatusConflict, w.Code, "%s %s", call.method, call.path)
		assert.Equal(t, "inactive_view", errorCode(t, w), "%s %s", call.method, call.path)
	}
	w = e.postPhoto(t, base+"/photolab", pngHeader, "add a cape")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, e.mock.ImageCallCount())

	// Unlocking lands on the dashboard; the quiz stays out of reach until
	// a mission is selected again.
	e.do(t, http.MethodPost, base+"/unlock", nil)
	w = e.do(t, http.MethodPost, base+"/quiz/select", gin.H{"option": "jump"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = e.do(t, http.MethodGet, base+"/chat", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	e.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(lessonJSON)})
	e.do(t, http.MethodPost, base+"/missions", gin.H{"topic_id": "verbs"})
	w = e.do(t, http.MethodPost, base+"/quiz/select", gin.H{"option": "jump"})
	require.Equal(t, http.StatusOK, w.Code)
	e.do(t, http.MethodPost, base+"/quiz/submit", nil)

	w = e.do(t, http.MethodPost, base+"/home", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodPost, base+"/quiz/next", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "inactive_view", errorCode(t, w))
}
