package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/infra/memory"
)

func newTestServer(questions []domain.Question) (*httptest.Server, *app.Registry) {
	store := memory.NewStaticQuestionStore(questions)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rooms := app.NewRegistry(store, logger)
	speed := app.NewSpeedGame(store, logger)
	api := NewAPI(rooms, speed, store, logger)
	ws := NewWSHandler(rooms, logger)
	return httptest.NewServer(NewRouter(api, ws)), rooms
}

func testCatalog() []domain.Question {
	return []domain.Question{
		{Stem: "q1", Options: []string{"A", "B"}, CorrectAnswer: "A", Category: "Science", TimeLimitSec: 10, BasePoints: 1000},
		{Stem: "q2", Options: []string{"A", "B"}, CorrectAnswer: "B", Category: "History", TimeLimitSec: 10, BasePoints: 1000},
	}
}

func TestRoomLifecycleOverREST(t *testing.T) {
	server, _ := newTestServer(testCatalog())
	defer server.Close()

	var created roomCreateResponse
	doJSON(t, server, http.MethodPost, "/api/rooms", "", nil, http.StatusOK, &created)
	if created.Code == "" || created.HostToken == "" {
		t.Fatalf("missing code or host token: %+v", created)
	}

	// Codes are case-insensitive at the boundary.
	var joined joinRoomResponse
	doJSON(t, server, http.MethodPost, "/api/rooms/"+strings.ToLower(created.Code)+"/join", "",
		map[string]any{"nickname": "Alice"}, http.StatusOK, &joined)
	if joined.PlayerID == "" || joined.Nickname != "Alice" {
		t.Fatalf("unexpected join response %+v", joined)
	}

	// No current question before start.
	resp := doRaw(t, server, http.MethodPost, "/api/rooms/"+created.Code+"/start", "bad-token", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("start with bad token: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRaw(t, server, http.MethodGet, "/api/rooms/"+created.Code+"/current", "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("current before start: %d", resp.StatusCode)
	}
	resp.Body.Close()

	var snapshot domain.QuestionSnapshot
	doJSON(t, server, http.MethodPost, "/api/rooms/"+created.Code+"/start", created.HostToken, nil, http.StatusOK, &snapshot)
	if snapshot.CurrentIndex != 1 || snapshot.TotalCount != 2 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}

	var current domain.QuestionSnapshot
	doJSON(t, server, http.MethodGet, "/api/rooms/"+created.Code+"/current", "", nil, http.StatusOK, &current)
	if current.QuestionID != snapshot.QuestionID {
		t.Fatalf("current %+v does not match started %+v", current, snapshot)
	}

	var lb domain.LeaderboardSnapshot
	doJSON(t, server, http.MethodGet, "/api/rooms/"+created.Code+"/leaderboard", "", nil, http.StatusOK, &lb)
	if len(lb.Entries) != 1 || lb.Entries[0].Nickname != "Alice" {
		t.Fatalf("unexpected leaderboard %+v", lb)
	}

	var withAnswers []domain.Question
	doJSON(t, server, http.MethodGet, "/api/rooms/"+created.Code+"/questions", "", nil, http.StatusOK, &withAnswers)
	if len(withAnswers) != 2 || withAnswers[0].CorrectAnswer == "" {
		t.Fatalf("host view should include answers: %+v", withAnswers)
	}

	var next domain.QuestionSnapshot
	doJSON(t, server, http.MethodPost, "/api/rooms/"+created.Code+"/next", created.HostToken, nil, http.StatusOK, &next)
	if next.CurrentIndex != 2 {
		t.Fatalf("expected position 2, got %+v", next)
	}

	// No more questions: conflict, per the InvalidState mapping.
	resp = doRaw(t, server, http.MethodPost, "/api/rooms/"+created.Code+"/next", created.HostToken, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("next past end: %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestJoinUnknownRoom(t *testing.T) {
	server, _ := newTestServer(testCatalog())
	defer server.Close()

	resp := doRaw(t, server, http.MethodPost, "/api/rooms/NOSUCH/join", "", map[string]any{"nickname": "Alice"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestQuestionManagement(t *testing.T) {
	server, _ := newTestServer(nil)
	defer server.Close()

	// Validation: the correct answer must be one of the options.
	resp := doRaw(t, server, http.MethodPost, "/api/questions", "", map[string]any{
		"stem": "bad", "options": []string{"A", "B"}, "correctAnswer": "C",
		"timeLimitSec": 10, "basePoints": 100,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	var created domain.Question
	doJSON(t, server, http.MethodPost, "/api/questions", "", map[string]any{
		"stem": "What is 2 + 2?", "options": []string{"3", "4"}, "correctAnswer": "4",
		"category": "Math", "timeLimitSec": 10, "basePoints": 500,
	}, http.StatusCreated, &created)
	if created.ID == 0 {
		t.Fatalf("expected assigned id, got %+v", created)
	}

	var views []domain.QuestionView
	doJSON(t, server, http.MethodGet, "/api/questions", "", nil, http.StatusOK, &views)
	if len(views) != 1 || views[0].Stem != "What is 2 + 2?" {
		t.Fatalf("unexpected list %+v", views)
	}

	doJSON(t, server, http.MethodGet, "/api/questions?category=Math", "", nil, http.StatusOK, &views)
	if len(views) != 1 {
		t.Fatalf("category filter returned %d items", len(views))
	}
	doJSON(t, server, http.MethodGet, "/api/questions?category=Other", "", nil, http.StatusOK, &views)
	if len(views) != 0 {
		t.Fatalf("unexpected category match %+v", views)
	}

	var updated domain.Question
	doJSON(t, server, http.MethodPut, "/api/questions/1", "", map[string]any{
		"stem": "What is 3 + 3?", "options": []string{"5", "6"}, "correctAnswer": "6",
		"category": "Math", "timeLimitSec": 10, "basePoints": 500,
	}, http.StatusOK, &updated)
	if updated.Stem != "What is 3 + 3?" {
		t.Fatalf("update not applied: %+v", updated)
	}

	resp = doRaw(t, server, http.MethodDelete, "/api/questions/1", "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRaw(t, server, http.MethodGet, "/api/questions/1", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestQuestionViewsHideAnswers(t *testing.T) {
	server, _ := newTestServer(testCatalog())
	defer server.Close()

	resp := doRaw(t, server, http.MethodGet, "/api/questions/random?count=2", "", nil)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("random: %d", resp.StatusCode)
	}
	if bytes.Contains(body, []byte("correctAnswer")) {
		t.Fatalf("player-facing view leaked the answer: %s", body)
	}
}

func TestSpeedModeOverREST(t *testing.T) {
	server, _ := newTestServer(testCatalog())
	defer server.Close()

	resp := doRaw(t, server, http.MethodPost, "/api/speed/start", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("start without nickname: %d", resp.StatusCode)
	}
	resp.Body.Close()

	var start domain.SpeedStart
	doJSON(t, server, http.MethodPost, "/api/speed/start?nickname=Bob", "", nil, http.StatusOK, &start)
	if start.SessionID == "" || start.TotalCount != 2 {
		t.Fatalf("unexpected start %+v", start)
	}

	var submit domain.SpeedSubmit
	doJSON(t, server, http.MethodPost, "/api/speed/"+start.SessionID+"/submit", "",
		map[string]any{"questionId": start.Question.ID, "answer": "A"}, http.StatusOK, &submit)
	if submit.NextQuestion == nil {
		t.Fatalf("expected a next question, got %+v", submit)
	}

	// Decode into a fresh value: the finish response omits nextQuestion and a
	// reused struct would keep the previous pointer.
	var final domain.SpeedSubmit
	doJSON(t, server, http.MethodPost, "/api/speed/"+start.SessionID+"/submit", "",
		map[string]any{"questionId": submit.NextQuestion.ID, "answer": "A"}, http.StatusOK, &final)
	if final.NextQuestion != nil {
		t.Fatalf("expected session to finish, got %+v", final)
	}

	var result domain.SpeedResult
	doJSON(t, server, http.MethodGet, "/api/speed/"+start.SessionID+"/result", "", nil, http.StatusOK, &result)
	if result.Nickname != "Bob" || len(result.Details) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	resp = doRaw(t, server, http.MethodGet, "/api/speed/nosuch/result", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown session: %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func doJSON(t *testing.T, server *httptest.Server, method, path, hostToken string, body any, wantStatus int, out any) {
	t.Helper()
	resp := doRaw(t, server, method, path, hostToken, body)
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s = %d, want %d (%s)", method, path, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
}

func doRaw(t *testing.T, server *httptest.Server, method, path, hostToken string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if hostToken != "" {
		req.Header.Set(hostTokenHeader, hostToken)
	}
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}
