package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/chat"
	"github.com/abhishaiv/AI-Study-Master/internal/lessons"
	"github.com/abhishaiv/AI-Study-Master/internal/llm"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/quiz"
	"github.com/abhishaiv/AI-Study-Master/internal/quizgen"
	"github.com/abhishaiv/AI-Study-Master/internal/review"
	"github.com/abhishaiv/AI-Study-Master/internal/store"
)

const lessonJSON = `{"overview":"RAG grounds answers.","keyConcepts":[{"title":"Chunking","content":"Split text."}],"codeExample":"","pitfalls":["Huge chunks"],"checklist":["Build a splitter"]}`

const quizJSON = `{"questions":[
 {"id":1,"question":"What does RAG add?","options":["Retrieval","Rendering"],"correctOptionIndex":0,"explanation":"Retrieval."},
 {"id":2,"question":"Good default splitter?","options":["Fixed","Recursive"],"correctOptionIndex":1,"explanation":"Recursive."}
]}`

type fixture struct {
	srv      *httptest.Server
	mock     *llm.MockProvider
	progress *progress.Store
}

func newFixture(t *testing.T, responses ...llm.MockResponse) *fixture {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	st := progress.NewStore(store.NewMemorySlotRepo())

	qcfg := quizgen.DefaultConfig()
	qcfg.Count = 2

	s := New(Deps{
		Catalog:  catalog.Default(),
		Progress: st,
		Lessons:  lessons.NewService(mock, lessons.DefaultConfig()),
		Quizzes:  quizgen.New(mock, qcfg),
		Reviewer: review.NewReviewer(mock, review.DefaultConfig(), review.WithRecorder(st)),
		Provider: mock,
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, mock: mock, progress: st}
}

func (f *fixture) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	var out map[string]string
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", nil, &out))
	assert.Equal(t, "ok", out["status"])
}

func TestTopics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.progress.RecordQuizResult(ctx, progress.QuizResult{TopicID: "week1-foundations", Score: 3, TotalQuestions: 4})
	require.NoError(t, err)

	var list []topicSummary
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/topics", nil, &list))
	require.Len(t, list, 8)
	assert.Equal(t, "W1", list[0].Label)
	require.NotNil(t, list[0].BestScore)
	assert.Equal(t, 75, *list[0].BestScore)
	assert.Nil(t, list[1].BestScore)

	var topic catalog.Topic
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/topics/week3-rag-basics", nil, &topic))
	assert.Equal(t, catalog.CategoryRAG, topic.Category)
	assert.NotEmpty(t, topic.Context)

	var e errResp
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/topics/nope", nil, &e))
	assert.Equal(t, "topic not found", e.Error)
}

func TestGenerateLesson(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Content: []byte(lessonJSON)})

	var l lessons.Lesson
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/topics/week3-rag-basics/lesson", nil, &l))
	assert.Equal(t, "week3-rag-basics", l.TopicID)
	assert.Equal(t, "RAG grounds answers.", l.Overview)

	p := f.progress.Load(context.Background())
	assert.True(t, p.HasCompleted("week3-rag-basics"))

	// Cached: no second request.
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/topics/week3-rag-basics/lesson", nil, &l))
	assert.Equal(t, 1, f.mock.CallCount())
}

func TestGenerateLesson_Failure(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	var e errResp
	assert.Equal(t, http.StatusBadGateway, f.do(t, http.MethodPost, "/api/topics/week3-rag-basics/lesson", nil, &e))
	assert.Equal(t, lessons.FailureText, e.Error)
	assert.False(t, f.progress.Load(context.Background()).HasCompleted("week3-rag-basics"))
}

func TestQuizFlow(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Content: []byte(quizJSON)})

	var st quizState
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/topics/week3-rag-basics/quizzes", nil, &st))
	assert.Equal(t, "in_progress", st.Phase)
	assert.Equal(t, 2, st.Total)
	require.NotNil(t, st.Question)
	assert.Nil(t, st.CorrectIdx)
	id := st.ID
	base := "/api/quizzes/" + id

	var raw map[string]any
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, base, nil, &raw))
	_, leaked := raw["correctOptionIndex"]
	assert.False(t, leaked)

	var e errResp
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, base+"/answer", map[string]any{}, &e))
	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, base+"/next", nil, &e))

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, base+"/answer", map[string]int{"option": 0}, &st))
	require.NotNil(t, st.Correct)
	assert.True(t, *st.Correct)
	assert.Equal(t, 0, *st.CorrectIdx)
	assert.Equal(t, 1, st.Score)

	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, base+"/answer", map[string]int{"option": 1}, &e))

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, base+"/next", nil, &st))
	assert.Equal(t, 1, st.Index)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, base+"/answer", map[string]int{"option": 0}, &st))
	assert.False(t, *st.Correct)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, base+"/next", nil, &st))
	assert.Equal(t, "results", st.Phase)
	require.NotNil(t, st.Percentage)
	assert.Equal(t, 50, *st.Percentage)
	assert.Equal(t, 50, f.progress.Load(context.Background()).QuizScores["week3-rag-basics"])

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, base, nil, nil))
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, base, nil, &e))
}

func TestStartQuiz_Failure(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Content: []byte(`{"questions":[]}`)})
	var e errResp
	assert.Equal(t, http.StatusBadGateway, f.do(t, http.MethodPost, "/api/topics/week3-rag-basics/quizzes", nil, &e))
	assert.Equal(t, "Could not generate a quiz for this topic. Please try again later.", e.Error)
}

func TestProgressAndReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.progress.MarkTopicStudied(ctx, "week2-embeddings")
	require.NoError(t, err)

	var pr progressResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/progress", nil, &pr))
	assert.Equal(t, 1, pr.Completed)
	assert.Equal(t, 8, pr.TotalTopics)
	assert.Equal(t, []string{"week2-embeddings"}, pr.Progress.CompletedTopics)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/progress", nil, nil))
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/progress", nil, &pr))
	assert.Equal(t, 0, pr.Completed)
}

func TestReview(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Content: []byte("Looks solid.")})

	var e errResp
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/review", reviewRequest{Prompt: "p"}, &e))

	var out reviewResponse
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/review", reviewRequest{Prompt: "p", Draft: "d"}, &out))
	assert.Equal(t, "Looks solid.", out.Feedback)
	assert.Equal(t, progress.KindAssignment, f.progress.Load(context.Background()).RecentActivity[0].Kind)
}

func dialChat(t *testing.T, f *fixture) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	u := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/api/chat"
	c, _, err := websocket.Dial(ctx, u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.CloseNow() })

	var welcome chatFrame
	require.NoError(t, wsjson.Read(ctx, c, &welcome))
	assert.Equal(t, frameDone, welcome.Type)
	assert.Equal(t, chat.WelcomeText, welcome.Text)
	return c, ctx
}

func TestChat_StreamsReply(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Chunks: []string{"Hi ", "there"}})
	c, ctx := dialChat(t, f)

	require.NoError(t, wsjson.Write(ctx, c, chatRequest{Text: "hello"}))

	var frames []chatFrame
	for {
		var fr chatFrame
		require.NoError(t, wsjson.Read(ctx, c, &fr))
		frames = append(frames, fr)
		if fr.Type != frameFragment {
			break
		}
	}
	require.Len(t, frames, 3)
	assert.Equal(t, "Hi ", frames[0].Text)
	assert.Equal(t, "Hi there", frames[1].Text)
	assert.Equal(t, chatFrame{Type: frameDone, ID: frames[0].ID, Text: "Hi there"}, frames[2])
}

func TestChat_EmptyAndError(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	c, ctx := dialChat(t, f)

	require.NoError(t, wsjson.Write(ctx, c, chatRequest{Text: "  "}))
	var fr chatFrame
	require.NoError(t, wsjson.Read(ctx, c, &fr))
	assert.Equal(t, frameError, fr.Type)
	assert.Equal(t, chat.ErrEmptyMessage.Error(), fr.Text)

	require.NoError(t, wsjson.Write(ctx, c, chatRequest{Text: "hello"}))
	require.NoError(t, wsjson.Read(ctx, c, &fr))
	assert.Equal(t, frameError, fr.Type)
	assert.Equal(t, chat.ErrorText, fr.Text)
}

func TestChat_CloseCancelsStream(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	f := newFixture(t, llm.MockResponse{Chunks: []string{"partial"}, Hold: hold})
	c, ctx := dialChat(t, f)

	require.NoError(t, wsjson.Write(ctx, c, chatRequest{Text: "hello"}))
	var fr chatFrame
	require.NoError(t, wsjson.Read(ctx, c, &fr))
	assert.Equal(t, "partial", fr.Text)

	require.NoError(t, c.Close(websocket.StatusNormalClosure, ""))
	// The server handler returning lets the test server close cleanly;
	// a leaked relay would block srv.Close in cleanup.
}

func TestOriginHosts(t *testing.T) {
	assert.Equal(t, []string{"localhost:*", "example.com"}, originHosts([]string{"http://localhost:*", "https://example.com/"}))
}

func TestQuizRuns_IdleAndCapEviction(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(Deps{Catalog: catalog.Default(), Now: func() time.Time { return now }})
	h := s.Handler()

	get := func(id string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quizzes/"+id, nil))
		return rec.Code
	}
	newRun := func(id string) *quizRun {
		return &quizRun{id: id, runner: quiz.NewRunner("week3-rag-basics", nil)}
	}

	s.addRun(newRun("stale"))
	now = now.Add(quizRunIdle + time.Minute)
	assert.Equal(t, http.StatusNotFound, get("stale"))

	for i := range maxQuizRuns {
		s.addRun(newRun(fmt.Sprintf("run-%d", i)))
		now = now.Add(time.Second)
	}
	// Touching run-0 makes run-1 the least recently used.
	assert.Equal(t, http.StatusOK, get("run-0"))

	s.addRun(newRun("latest"))
	s.mu.Lock()
	assert.Len(t, s.runs, maxQuizRuns)
	_, hasOldest := s.runs["run-1"]
	s.mu.Unlock()
	assert.False(t, hasOldest, "least recently used run should be evicted")
	assert.Equal(t, http.StatusOK, get("run-0"))
	assert.Equal(t, http.StatusOK, get("latest"))
}
