package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
)

// WSHandler pushes question and leaderboard events to room subscribers and
// accepts answer submissions over the same connection.
type WSHandler struct {
	rooms    *app.Registry
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(rooms *app.Registry, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		rooms:  rooms,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	PlayerID   string `json:"playerId"`
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and streams room events until the client
// disconnects. Answers arriving outside the open window are dropped without a
// reply, matching the room's silent-discard policy.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.URL.Query().Get("code"))
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, cancel, err := h.rooms.Subscribe(code)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// Single writer goroutine so room events and answer replies never write
	// to the connection concurrently.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- toOutbound(event):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			err := h.rooms.SubmitAnswer(code, domain.AnswerSubmission{
				PlayerID:   payload.PlayerID,
				QuestionID: payload.QuestionID,
				Answer:     payload.Answer,
			})
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func toOutbound(event domain.RoomEvent) outboundMessage[any] {
	switch event.Type {
	case "question":
		return outboundMessage[any]{Type: "question", Payload: event.Question}
	default:
		return outboundMessage[any]{Type: "leaderboard", Payload: event.Leaderboard}
	}
}
