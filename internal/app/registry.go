package app

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-arena/internal/domain"
)

// QuestionStore is the read-only question catalog consumed by the core.
type QuestionStore interface {
	FindByID(ctx context.Context, id int64) (domain.Question, error)
	FindByCategory(ctx context.Context, category string) ([]domain.Question, error)
	// FindRandom returns up to n questions in random order; fewer when the
	// catalog is smaller.
	FindRandom(ctx context.Context, n int) ([]domain.Question, error)
	Count(ctx context.Context) (int, error)
}

// Room code alphabet avoids ambiguous characters (no I/O/0/1).
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
)

// DefaultRoomQuestions is how many questions a room play-through draws.
const DefaultRoomQuestions = 20

// Registry owns the set of live rooms and drives the host-paced game flow.
// Rooms are independent; the registry lock only guards the code-to-room map.
type Registry struct {
	questions        QuestionStore
	logger           *slog.Logger
	now              func() time.Time
	questionsPerGame int

	mu    sync.RWMutex
	rnd   *rand.Rand // guarded by mu; demo-grade, not cryptographic
	rooms map[string]*Room
}

func NewRegistry(questions QuestionStore, logger *slog.Logger) *Registry {
	return NewRegistryWithClock(questions, logger, time.Now)
}

// NewRegistryWithClock allows deterministic answer windows in tests.
func NewRegistryWithClock(questions QuestionStore, logger *slog.Logger, now func() time.Time) *Registry {
	return &Registry{
		questions:        questions,
		logger:           logger,
		now:              now,
		questionsPerGame: DefaultRoomQuestions,
		rnd:              rand.New(rand.NewSource(now().UnixNano())),
		rooms:            make(map[string]*Room),
	}
}

// SetQuestionsPerGame overrides the draw size for subsequent starts. Values
// below 1 are ignored.
func (g *Registry) SetQuestionsPerGame(n int) {
	if n > 0 {
		g.questionsPerGame = n
	}
}

// CreateRoom registers a new lobby room with a fresh code and host credential.
func (g *Registry) CreateRoom() *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := g.generateCodeLocked()
	room := newRoom(code, uuid.NewString(), g.now)
	g.rooms[code] = room
	g.logger.Info("room created", "code", code, "rooms", len(g.rooms))
	return room
}

// generateCodeLocked draws codes until one does not collide with a registered
// room. Codes are short, so retrying is cheap at demo scale.
func (g *Registry) generateCodeLocked() string {
	for {
		var sb strings.Builder
		for i := 0; i < roomCodeLength; i++ {
			sb.WriteByte(roomCodeAlphabet[g.rnd.Intn(len(roomCodeAlphabet))])
		}
		code := sb.String()
		if _, exists := g.rooms[code]; !exists {
			return code
		}
	}
}

// GetRoom looks up a room by code. Codes are stored upper-case, so lookups
// normalize first.
func (g *Registry) GetRoom(code string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// Join registers a player in a room. Allowed in any room status.
func (g *Registry) Join(code, nickname string) (domain.Player, error) {
	room, err := g.GetRoom(code)
	if err != nil {
		return domain.Player{}, err
	}
	player := room.join(nickname)
	g.logger.Info("player joined", "code", code, "playerId", player.PlayerID, "players", room.PlayerCount())
	return player, nil
}

// Start authorizes the host, draws the question sequence and opens the first
// answer window. The drawn sequence is capped at questionsPerGame.
func (g *Registry) Start(ctx context.Context, code, hostToken string) (domain.QuestionSnapshot, error) {
	room, err := g.GetRoom(code)
	if err != nil {
		return domain.QuestionSnapshot{}, err
	}
	if err := room.authorizeHost(hostToken); err != nil {
		return domain.QuestionSnapshot{}, err
	}

	total, err := g.questions.Count(ctx)
	if err != nil {
		return domain.QuestionSnapshot{}, err
	}
	if total == 0 {
		return domain.QuestionSnapshot{}, domain.ErrNoQuestions
	}

	questions, err := g.questions.FindRandom(ctx, g.questionsPerGame)
	if err != nil {
		return domain.QuestionSnapshot{}, err
	}
	if len(questions) == 0 {
		return domain.QuestionSnapshot{}, domain.ErrNoQuestions
	}
	if len(questions) > g.questionsPerGame {
		g.shuffle(questions)
		questions = questions[:g.questionsPerGame]
	}

	snapshot, err := room.start(questions)
	if err != nil {
		return domain.QuestionSnapshot{}, err
	}
	g.logger.Info("game started", "code", code, "questions", len(questions), "firstQuestionId", snapshot.QuestionID)
	return snapshot, nil
}

func (g *Registry) shuffle(questions []domain.Question) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

// Next authorizes the host and advances the room to the following question.
func (g *Registry) Next(code, hostToken string) (domain.QuestionSnapshot, error) {
	room, err := g.GetRoom(code)
	if err != nil {
		return domain.QuestionSnapshot{}, err
	}
	if err := room.authorizeHost(hostToken); err != nil {
		return domain.QuestionSnapshot{}, err
	}
	return room.next()
}

// SubmitAnswer scores a player's answer against the room's open window.
func (g *Registry) SubmitAnswer(code string, sub domain.AnswerSubmission) error {
	room, err := g.GetRoom(code)
	if err != nil {
		return err
	}
	return room.submitAnswer(sub)
}

// Leaderboard returns the room's current scoreboard.
func (g *Registry) Leaderboard(code string) (domain.LeaderboardSnapshot, error) {
	room, err := g.GetRoom(code)
	if err != nil {
		return domain.LeaderboardSnapshot{}, err
	}
	return room.Leaderboard(), nil
}

// CurrentQuestion serves the cached snapshot for late joiners and polling
// clients; nil before the game starts.
func (g *Registry) CurrentQuestion(code string) (*domain.QuestionSnapshot, error) {
	room, err := g.GetRoom(code)
	if err != nil {
		return nil, err
	}
	return room.CurrentQuestion(), nil
}

// QuestionsWithAnswers exposes the host review view of the selected sequence.
func (g *Registry) QuestionsWithAnswers(code string) ([]domain.Question, error) {
	room, err := g.GetRoom(code)
	if err != nil {
		return nil, err
	}
	return room.QuestionsWithAnswers(), nil
}

// Subscribe attaches a listener to the room's event stream. The caller must
// invoke the returned cancel function to avoid leaks.
func (g *Registry) Subscribe(code string) (<-chan domain.RoomEvent, func(), error) {
	room, err := g.GetRoom(code)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := room.Subscribe()
	return ch, cancel, nil
}
