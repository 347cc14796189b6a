package app

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-arena/internal/domain"
)

// Room is a live multiplayer game instance. All state is in-memory and lives
// for the process lifetime (demo scope). A single mutex guards the roster,
// the question sequence and the answer window; this serializes SubmitAnswer
// against a concurrent Next, so a submission racing a question transition is
// scored against exactly one of the two windows.
type Room struct {
	code      string
	hostToken string
	now       func() time.Time

	mu              sync.RWMutex
	status          domain.RoomStatus
	players         map[string]*domain.Player
	joinSeq         int
	questions       []domain.Question
	currentIndex    int
	openedAtMs      int64
	closedAtMs      int64
	currentSnapshot *domain.QuestionSnapshot
	subscribers     map[chan domain.RoomEvent]struct{}
}

func newRoom(code, hostToken string, now func() time.Time) *Room {
	return &Room{
		code:         code,
		hostToken:    hostToken,
		now:          now,
		status:       domain.RoomLobby,
		players:      make(map[string]*domain.Player),
		currentIndex: -1,
		subscribers:  make(map[chan domain.RoomEvent]struct{}),
	}
}

// Code returns the human-shareable room code.
func (r *Room) Code() string { return r.code }

// HostToken returns the host credential issued at creation.
func (r *Room) HostToken() string { return r.hostToken }

// Status returns the current lifecycle state.
func (r *Room) Status() domain.RoomStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// PlayerCount returns the roster size.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// authorizeHost is the single place the host credential is checked. Exact
// string equality, no normalization.
func (r *Room) authorizeHost(token string) error {
	if token == "" || token != r.hostToken {
		return domain.ErrInvalidHostToken
	}
	return nil
}

// join registers a new player. Allowed in any status; nicknames need not be
// unique.
func (r *Room) join(nickname string) domain.Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	player := &domain.Player{
		PlayerID:  uuid.NewString(),
		Nickname:  nickname,
		Score:     0,
		JoinOrder: r.joinSeq,
	}
	r.joinSeq++
	r.players[player.PlayerID] = player
	return *player
}

// start installs the drawn question sequence and opens the first window.
// Only a lobby room can start: the lifecycle never transitions backwards.
func (r *Room) start(questions []domain.Question) (domain.QuestionSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != domain.RoomLobby {
		return domain.QuestionSnapshot{}, domain.ErrGameAlreadyStarted
	}

	r.status = domain.RoomInGame
	r.questions = questions
	r.currentIndex = 0
	snapshot := r.openWindowLocked()
	r.publishLocked(domain.RoomEvent{Type: "question", Question: &snapshot})
	lb := r.leaderboardLocked()
	r.publishLocked(domain.RoomEvent{Type: "leaderboard", Leaderboard: &lb})
	return snapshot, nil
}

// next advances to the following question. Advancing past the last question
// finishes the room.
func (r *Room) next() (domain.QuestionSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentIndex < 0 || len(r.questions) == 0 {
		return domain.QuestionSnapshot{}, domain.ErrGameNotStarted
	}
	if r.currentIndex >= len(r.questions)-1 {
		r.status = domain.RoomFinished
		return domain.QuestionSnapshot{}, domain.ErrNoMoreQuestions
	}

	r.currentIndex++
	snapshot := r.openWindowLocked()
	r.publishLocked(domain.RoomEvent{Type: "question", Question: &snapshot})
	return snapshot, nil
}

// openWindowLocked opens the answer window for the question at currentIndex
// and caches the snapshot for late joiners.
func (r *Room) openWindowLocked() domain.QuestionSnapshot {
	q := r.questions[r.currentIndex]
	r.openedAtMs = r.now().UnixMilli()
	r.closedAtMs = r.openedAtMs + int64(q.TimeLimitSec)*1000
	snapshot := domain.QuestionSnapshot{
		QuestionID:      q.ID,
		Stem:            q.Stem,
		Options:         q.Options,
		OpenedAtEpochMs: r.openedAtMs,
		ClosedAtEpochMs: r.closedAtMs,
		CurrentIndex:    r.currentIndex + 1,
		TotalCount:      len(r.questions),
	}
	r.currentSnapshot = &snapshot
	return snapshot
}

// CanAcceptAnswer reports whether an answer for questionID at nowMs falls
// inside the open window. This is the sole admission gate for scoring: it
// rejects stale or future question ids and late arrivals, but trusts any
// submission once the window is open.
func (r *Room) CanAcceptAnswer(nowMs int64, questionID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.canAcceptAnswerLocked(nowMs, questionID)
}

func (r *Room) canAcceptAnswerLocked(nowMs int64, questionID int64) bool {
	if r.status != domain.RoomInGame {
		return false
	}
	if r.currentIndex < 0 || r.currentIndex >= len(r.questions) {
		return false
	}
	if r.questions[r.currentIndex].ID != questionID {
		return false
	}
	return nowMs >= r.openedAtMs && nowMs <= r.closedAtMs
}

// submitAnswer validates the submission against the open window, scores it,
// and folds the points into the player's total. Out-of-window or
// wrong-question submissions are silently discarded, not errors: the demo
// tolerates network jitter at the cost of not telling the client why the
// answer did not count.
func (r *Room) submitAnswer(sub domain.AnswerSubmission) error {
	nowMs := r.now().UnixMilli()

	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[sub.PlayerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	if !r.canAcceptAnswerLocked(nowMs, sub.QuestionID) {
		return nil
	}

	q := r.questions[r.currentIndex]
	correct := sub.Answer == q.CorrectAnswer
	latency := nowMs - r.openedAtMs
	if latency < 0 {
		latency = 0
	}
	player.Score += ComputeScore(correct, q.BasePoints, q.TimeLimitSec, latency)

	lb := r.leaderboardLocked()
	r.publishLocked(domain.RoomEvent{Type: "leaderboard", Leaderboard: &lb})
	return nil
}

// Leaderboard returns the current scoreboard sorted by score descending.
func (r *Room) Leaderboard() domain.LeaderboardSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.leaderboardLocked()
}

func (r *Room) leaderboardLocked() domain.LeaderboardSnapshot {
	entries := make([]domain.LeaderboardEntry, 0, len(r.players))
	for _, p := range r.players {
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID: p.PlayerID,
			Nickname: p.Nickname,
			Score:    p.Score,
		})
	}
	// Ties break by join order, then player id, so the ordering is stable
	// across reads.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		pi, pj := r.players[entries[i].PlayerID], r.players[entries[j].PlayerID]
		if pi.JoinOrder != pj.JoinOrder {
			return pi.JoinOrder < pj.JoinOrder
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	return domain.LeaderboardSnapshot{
		Entries:           entries,
		ServerTimeEpochMs: r.now().UnixMilli(),
	}
}

// CurrentQuestion returns the cached snapshot for late joiners, or nil before
// the game starts.
func (r *Room) CurrentQuestion() *domain.QuestionSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.currentSnapshot == nil {
		return nil
	}
	snapshot := *r.currentSnapshot
	return &snapshot
}

// QuestionsWithAnswers exposes the full selected sequence including correct
// answers and explanations, for the host review view. Empty before start.
func (r *Room) QuestionsWithAnswers() []domain.Question {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Question, len(r.questions))
	copy(out, r.questions)
	return out
}

// Subscribe returns a channel receiving question and leaderboard events for
// this room. The caller must invoke the cancel function to avoid leaks.
func (r *Room) Subscribe() (<-chan domain.RoomEvent, func()) {
	ch := make(chan domain.RoomEvent, 8)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	initial := r.leaderboardLocked()
	current := r.currentSnapshot
	r.mu.Unlock()

	if current != nil {
		ch <- domain.RoomEvent{Type: "question", Question: current}
	}
	ch <- domain.RoomEvent{Type: "leaderboard", Leaderboard: &initial}

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

// publishLocked fans an event out to all subscribers without blocking on slow
// consumers: when a buffer is full the oldest event is dropped.
func (r *Room) publishLocked(event domain.RoomEvent) {
	for ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
