package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the REST surface and the websocket endpoint.
func NewRouter(api *API, ws *WSHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", hostTokenHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/ws", ws.ServeWS)

	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", api.createRoom)
		r.Post("/{code}/join", api.joinRoom)
		r.Post("/{code}/start", api.startRoom)
		r.Post("/{code}/next", api.nextQuestion)
		r.Get("/{code}/current", api.currentQuestion)
		r.Get("/{code}/leaderboard", api.roomLeaderboard)
		r.Get("/{code}/questions", api.roomQuestions)
	})

	r.Route("/api/questions", func(r chi.Router) {
		r.Post("/", api.createQuestion)
		r.Get("/", api.listQuestions)
		r.Get("/random", api.randomQuestions)
		r.Get("/{id}", api.getQuestion)
		r.Put("/{id}", api.updateQuestion)
		r.Delete("/{id}", api.deleteQuestion)
	})

	r.Route("/api/speed", func(r chi.Router) {
		r.Post("/start", api.startSpeed)
		r.Post("/{sessionId}/submit", api.submitSpeed)
		r.Get("/{sessionId}/result", api.speedResult)
	})

	return r
}
