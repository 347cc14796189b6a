package domain

import "errors"

var (
	// ErrRoomNotFound is returned when a room code is not registered.
	ErrRoomNotFound = errors.New("room not found")
	// ErrPlayerNotFound is returned when a player id is unknown to the room.
	ErrPlayerNotFound = errors.New("player not found in room")
	// ErrSessionNotFound is returned for an unknown speed session id.
	ErrSessionNotFound = errors.New("speed session not found")
	// ErrQuestionNotFound indicates the question id is not in the catalog.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidHostToken is returned when the host credential does not match.
	ErrInvalidHostToken = errors.New("invalid host token")
	// ErrNoQuestions indicates the question catalog is empty.
	ErrNoQuestions = errors.New("no questions available")
	// ErrGameNotStarted is returned when an in-game operation hits a lobby room.
	ErrGameNotStarted = errors.New("game not started yet")
	// ErrGameAlreadyStarted is returned when starting a room that left the lobby.
	ErrGameAlreadyStarted = errors.New("game already started")
	// ErrNoMoreQuestions is returned when the host advances past the last question.
	ErrNoMoreQuestions = errors.New("no more questions")
	// ErrSessionFinished is returned when submitting to a completed speed session.
	ErrSessionFinished = errors.New("game already finished")
)
