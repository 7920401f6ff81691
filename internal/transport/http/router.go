package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

// NewRouter mounts the JSON API, the solution feed and the health check.
// An empty allowedOrigins list disables CORS.
func NewRouter(h *Handler, ws *WSHandler, allowedOrigins []string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/token", h.token)
	r.Get("/ws/solutions", ws.ServeWS)

	r.Route(apiPrefix, func(ar chi.Router) {
		ar.Get("/", h.introduction)
		ar.Post("/users", h.createUser)

		ar.Group(func(pr chi.Router) {
			pr.Use(middleware.Timeout(30 * time.Second))
			pr.Use(RequireAuth(h.auth, log))
			pr.Get("/users/me", h.me)

			pr.Route("/questions", func(qr chi.Router) {
				qr.Get("/", h.listQuestions)
				qr.Post("/", h.createQuestion)
				qr.Get("/{uuid}", h.getQuestion)
				qr.Put("/{uuid}", h.updateQuestion)
				qr.Delete("/{uuid}", h.deleteQuestion)
			})
			pr.Route("/quizzes", func(qr chi.Router) {
				qr.Get("/", h.listQuizzes)
				qr.Post("/", h.createQuiz)
				qr.Get("/{uuid}", h.getQuiz)
				qr.Put("/{uuid}", h.updateQuiz)
				qr.Delete("/{uuid}", h.deleteQuiz)
				qr.Get("/{uuid}/solutions", h.quizSolutions)
			})
			pr.Route("/solutions", func(sr chi.Router) {
				sr.Get("/", h.listSolutions)
				sr.Post("/", h.submitSolution)
				sr.Get("/{uuid}", h.getSolution)
				sr.Delete("/{uuid}", h.deleteSolution)
			})
		})
	})
	return r
}
