package domain

import "time"

// RoomStatus tracks the lifecycle of a room: Lobby -> InGame -> Finished.
type RoomStatus string

const (
	RoomLobby    RoomStatus = "LOBBY"
	RoomInGame   RoomStatus = "IN_GAME"
	RoomFinished RoomStatus = "FINISHED"
)

// Question is a catalog entry owned by the question store. The core treats it
// as immutable once fetched.
type Question struct {
	ID            int64     `json:"id"`
	Stem          string    `json:"stem"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correctAnswer"`
	Explanation   string    `json:"explanation"`
	Category      string    `json:"category"`
	TimeLimitSec  int       `json:"timeLimitSec"`
	BasePoints    int       `json:"basePoints"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// QuestionView is the answer-stripped shape sent to players.
type QuestionView struct {
	ID          int64    `json:"id"`
	Stem        string   `json:"stem"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation"`
	Category    string   `json:"category"`
}

// View strips the correct answer for broadcast to players.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:          q.ID,
		Stem:        q.Stem,
		Options:     q.Options,
		Explanation: q.Explanation,
		Category:    q.Category,
	}
}

// Player is a room participant. Score only grows, and only via scoring.
type Player struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	// JoinOrder breaks leaderboard ties deterministically (earlier join wins).
	JoinOrder int `json:"-"`
}

// QuestionSnapshot is the point-in-time question payload pushed to a room and
// served to late joiners. CurrentIndex is 1-based.
type QuestionSnapshot struct {
	QuestionID      int64    `json:"questionId"`
	Stem            string   `json:"stem"`
	Options         []string `json:"options"`
	OpenedAtEpochMs int64    `json:"openedAtEpochMs"`
	ClosedAtEpochMs int64    `json:"closedAtEpochMs"`
	CurrentIndex    int      `json:"currentIndex"`
	TotalCount      int      `json:"totalCount"`
}

// LeaderboardEntry is a snapshot-friendly view of a player.
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// LeaderboardSnapshot captures the ordered scoreboard for a room.
type LeaderboardSnapshot struct {
	Entries           []LeaderboardEntry `json:"entries"`
	ServerTimeEpochMs int64              `json:"serverTimeEpochMs"`
}

// AnswerSubmission models the scoring signal from clients.
type AnswerSubmission struct {
	PlayerID   string `json:"playerId"`
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

// RoomEvent is fanned out to room subscribers. Exactly one of Question or
// Leaderboard is set, matching Type.
type RoomEvent struct {
	Type        string               `json:"type"` // "question" | "leaderboard"
	Question    *QuestionSnapshot    `json:"question,omitempty"`
	Leaderboard *LeaderboardSnapshot `json:"leaderboard,omitempty"`
}

// SpeedStart is the response to opening a solo speed session.
type SpeedStart struct {
	SessionID  string       `json:"sessionId"`
	Question   QuestionView `json:"question"`
	TotalCount int          `json:"totalCount"`
}

// SpeedSubmit reports the outcome of one speed-mode answer. NextQuestion is
// nil once the session finishes.
type SpeedSubmit struct {
	Correct      bool          `json:"correct"`
	ScoreEarned  int           `json:"scoreEarned"`
	TotalScore   int           `json:"totalScore"`
	NextQuestion *QuestionView `json:"nextQuestion,omitempty"`
}

// SpeedResult is the post-game review: full questions with answers and
// explanations.
type SpeedResult struct {
	Nickname     string     `json:"nickname"`
	TotalScore   int        `json:"totalScore"`
	CorrectCount int        `json:"correctCount"`
	Details      []Question `json:"details"`
}
