package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"quiz-arena/internal/domain"
)

// DefaultSpeedQuestions is the fixed draw size for a solo speed session.
const DefaultSpeedQuestions = 10

// speedTimeLimitSec is the nominal per-question limit in speed mode. Latency
// is not measured, so correct answers always score at full credit.
const speedTimeLimitSec = 15

// SpeedGame manages solo timed sessions: the single-player variant of the
// room flow, without broadcast. Sessions live for the process lifetime.
type SpeedGame struct {
	questions        QuestionStore
	logger           *slog.Logger
	questionsPerGame int

	mu       sync.RWMutex
	sessions map[string]*speedSession
}

type speedSession struct {
	id           string
	nickname     string
	questions    []domain.Question
	cursor       int
	totalScore   int
	correctCount int
	answers      map[int64]string
	finished     bool
}

func NewSpeedGame(questions QuestionStore, logger *slog.Logger) *SpeedGame {
	return &SpeedGame{
		questions:        questions,
		logger:           logger,
		questionsPerGame: DefaultSpeedQuestions,
		sessions:         make(map[string]*speedSession),
	}
}

// SetQuestionsPerGame overrides the draw size for subsequent sessions. Values
// below 1 are ignored.
func (s *SpeedGame) SetQuestionsPerGame(n int) {
	if n > 0 {
		s.questionsPerGame = n
	}
}

// Start draws a fixed question sequence, registers a new session and returns
// the first question with the answer withheld.
func (s *SpeedGame) Start(ctx context.Context, nickname string) (domain.SpeedStart, error) {
	questions, err := s.questions.FindRandom(ctx, s.questionsPerGame)
	if err != nil {
		return domain.SpeedStart{}, err
	}
	if len(questions) == 0 {
		return domain.SpeedStart{}, domain.ErrNoQuestions
	}

	session := &speedSession{
		id:        uuid.NewString(),
		nickname:  nickname,
		questions: questions,
		answers:   make(map[int64]string),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	s.logger.Info("speed session started", "sessionId", session.id, "questions", len(questions))
	return domain.SpeedStart{
		SessionID:  session.id,
		Question:   questions[0].View(),
		TotalCount: len(questions),
	}, nil
}

// Submit scores the question at the session's cursor and advances it. The
// supplied questionID only flags client desync; a mismatch does not block
// scoring against the cursor. Running past the last question finishes the
// session.
func (s *SpeedGame) Submit(sessionID string, questionID int64, answer string) (domain.SpeedSubmit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.SpeedSubmit{}, domain.ErrSessionNotFound
	}
	if session.finished {
		return domain.SpeedSubmit{}, domain.ErrSessionFinished
	}

	current := session.questions[session.cursor]
	if current.ID != questionID {
		// The session cursor stays the source of truth when the client
		// state drifts.
		s.logger.Warn("speed submit question mismatch", "sessionId", sessionID, "got", questionID, "expected", current.ID)
	}

	correct := answer == current.CorrectAnswer
	earned := ComputeScore(correct, current.BasePoints, speedTimeLimitSec, 0)
	session.totalScore += earned
	session.answers[current.ID] = answer
	if correct {
		session.correctCount++
	}

	session.cursor++
	var next *domain.QuestionView
	if session.cursor < len(session.questions) {
		view := session.questions[session.cursor].View()
		next = &view
	} else {
		session.finished = true
	}

	return domain.SpeedSubmit{
		Correct:      correct,
		ScoreEarned:  earned,
		TotalScore:   session.totalScore,
		NextQuestion: next,
	}, nil
}

// Result returns the post-game review: the full question list with correct
// answers and explanations. The player's own answers stay internal.
func (s *SpeedGame) Result(sessionID string) (domain.SpeedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.SpeedResult{}, domain.ErrSessionNotFound
	}

	details := make([]domain.Question, len(session.questions))
	copy(details, session.questions)
	return domain.SpeedResult{
		Nickname:     session.nickname,
		TotalScore:   session.totalScore,
		CorrectCount: session.correctCount,
		Details:      details,
	}, nil
}
