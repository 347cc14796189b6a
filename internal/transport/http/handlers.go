package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
)

// QuestionCatalog is the read/write question store backing the management
// endpoints. The core game flow only ever sees the read side.
type QuestionCatalog interface {
	FindByID(ctx context.Context, id int64) (domain.Question, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Question, error)
	FindRandom(ctx context.Context, n int) ([]domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Create(ctx context.Context, q domain.Question) (domain.Question, error)
	Update(ctx context.Context, q domain.Question) (domain.Question, error)
	Delete(ctx context.Context, id int64) error
}

// API exposes the REST surface: room lifecycle, question management and the
// solo speed mode.
type API struct {
	rooms   *app.Registry
	speed   *app.SpeedGame
	catalog QuestionCatalog
	logger  *slog.Logger
}

func NewAPI(rooms *app.Registry, speed *app.SpeedGame, catalog QuestionCatalog, logger *slog.Logger) *API {
	return &API{rooms: rooms, speed: speed, catalog: catalog, logger: logger}
}

// hostTokenHeader carries the opaque host credential out-of-band.
const hostTokenHeader = "X-Host-Token"

type roomCreateResponse struct {
	Code      string `json:"code"`
	HostToken string `json:"hostToken"`
}

type joinRoomRequest struct {
	Nickname string `json:"nickname"`
}

type joinRoomResponse struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
}

func (a *API) createRoom(w http.ResponseWriter, r *http.Request) {
	room := a.rooms.CreateRoom()
	writeJSON(w, http.StatusOK, roomCreateResponse{Code: room.Code(), HostToken: room.HostToken()})
}

func (a *API) joinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Nickname) == "" {
		writeError(w, http.StatusBadRequest, "nickname is required")
		return
	}
	player, err := a.rooms.Join(roomCode(r), req.Nickname)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, joinRoomResponse{PlayerID: player.PlayerID, Nickname: player.Nickname})
}

func (a *API) startRoom(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.rooms.Start(r.Context(), roomCode(r), r.Header.Get(hostTokenHeader))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (a *API) nextQuestion(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.rooms.Next(roomCode(r), r.Header.Get(hostTokenHeader))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// currentQuestion serves late joiners and polling clients. 204 before start.
func (a *API) currentQuestion(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.rooms.CurrentQuestion(roomCode(r))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	if snapshot == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (a *API) roomLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := a.rooms.Leaderboard(roomCode(r))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

// roomQuestions is the host review view: selected questions with answers and
// explanations.
func (a *API) roomQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := a.rooms.QuestionsWithAnswers(roomCode(r))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

type questionRequest struct {
	Stem          string   `json:"stem"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Category      string   `json:"category"`
	TimeLimitSec  int      `json:"timeLimitSec"`
	BasePoints    int      `json:"basePoints"`
}

func (req questionRequest) validate() string {
	if strings.TrimSpace(req.Stem) == "" {
		return "stem is required"
	}
	if len(req.Options) < 2 {
		return "at least two options are required"
	}
	found := false
	for _, opt := range req.Options {
		if opt == req.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return "correctAnswer must equal one of the options"
	}
	if req.TimeLimitSec <= 0 {
		return "timeLimitSec must be positive"
	}
	if req.BasePoints <= 0 {
		return "basePoints must be positive"
	}
	return ""
}

func (req questionRequest) toQuestion() domain.Question {
	return domain.Question{
		Stem:          req.Stem,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
		Category:      req.Category,
		TimeLimitSec:  req.TimeLimitSec,
		BasePoints:    req.BasePoints,
	}
}

func (a *API) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid question payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	created, err := a.catalog.Create(r.Context(), req.toQuestion())
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) listQuestions(w http.ResponseWriter, r *http.Request) {
	var (
		questions []domain.Question
		err       error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		questions, err = a.catalog.FindByCategory(r.Context(), category)
	} else {
		questions, err = a.catalog.List(r.Context())
	}
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toViews(questions))
}

func (a *API) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	q, err := a.catalog.FindByID(r.Context(), id)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q.View())
}

func (a *API) updateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid question payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	q := req.toQuestion()
	q.ID = id
	updated, err := a.catalog.Update(r.Context(), q)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := questionID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	if err := a.catalog.Delete(r.Context(), id); err != nil {
		a.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) randomQuestions(w http.ResponseWriter, r *http.Request) {
	count := 20
	if raw := r.URL.Query().Get("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}
	questions, err := a.catalog.FindRandom(r.Context(), count)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toViews(questions))
}

type speedSubmitRequest struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

func (a *API) startSpeed(w http.ResponseWriter, r *http.Request) {
	nickname := r.URL.Query().Get("nickname")
	if strings.TrimSpace(nickname) == "" {
		writeError(w, http.StatusBadRequest, "nickname is required")
		return
	}
	start, err := a.speed.Start(r.Context(), nickname)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, start)
}

func (a *API) submitSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submit payload")
		return
	}
	result, err := a.speed.Submit(chi.URLParam(r, "sessionId"), req.QuestionID, req.Answer)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) speedResult(w http.ResponseWriter, r *http.Request) {
	result, err := a.speed.Result(chi.URLParam(r, "sessionId"))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// roomCode canonicalizes the code at the boundary: case-insensitive in,
// upper-case stored.
func roomCode(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "code"))
}

func questionID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func toViews(questions []domain.Question) []domain.QuestionView {
	views := make([]domain.QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, q.View())
	}
	return views
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeDomainError maps the core error taxonomy onto HTTP statuses:
// NotFound -> 404, Forbidden -> 403, InvalidState -> 409.
func (a *API) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidHostToken):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrGameNotStarted),
		errors.Is(err, domain.ErrGameAlreadyStarted),
		errors.Is(err, domain.ErrNoMoreQuestions),
		errors.Is(err, domain.ErrSessionFinished):
		writeError(w, http.StatusConflict, err.Error())
	default:
		a.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
