package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"quizzes-service/internal/app"
	"quizzes-service/internal/domain"
)

// Handler serves the JSON API.
type Handler struct {
	auth      Authenticator
	users     *app.UserService
	questions *app.QuestionService
	quizzes   *app.QuizService
	solutions *app.SolutionService
	log       *zap.Logger
}

func NewHandler(auth Authenticator, users *app.UserService, questions *app.QuestionService, quizzes *app.QuizService, solutions *app.SolutionService, log *zap.Logger) *Handler {
	return &Handler{auth: auth, users: users, questions: questions, quizzes: quizzes, solutions: solutions, log: log}
}

func (h *Handler) introduction(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"introduction": "Quizzes service"})
}

// token implements the OAuth2 password grant: form fields username and password.
func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, h.log, domain.Validationf("invalid form"))
		return
	}
	tok, err := h.auth.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": tok, "token_type": "bearer"})
}

type newUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Plain string `json:"plain"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req newUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	user, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Plain)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	rec, err := h.users.Get(r.Context(), principal(r).Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.User)
}

type questionRequest struct {
	Text    string   `json:"text"`
	Answers []string `json:"answers"`
	Correct []bool   `json:"correct"`
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	list, err := h.questions.ListByOwner(r.Context(), principal(r).UUID)
	respond(w, h.log, list, err)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "questions"); err != nil {
		writeError(w, h.log, err)
		return
	}
	q, err := h.questions.Get(r.Context(), uuid)
	respond(w, h.log, q, err)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	q, err := h.questions.Create(r.Context(), principal(r).UUID, req.Text, req.Answers, req.Correct)
	respond(w, h.log, q, err)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "questions"); err != nil {
		writeError(w, h.log, err)
		return
	}
	var patch domain.QuestionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.log, err)
		return
	}
	q, err := h.questions.Update(r.Context(), uuid, patch)
	respond(w, h.log, q, err)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "questions"); err != nil {
		writeError(w, h.log, err)
		return
	}
	q, err := h.questions.Remove(r.Context(), uuid)
	respond(w, h.log, q, err)
}

type quizRequest struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
}

func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	list, err := h.quizzes.ListByOwner(r.Context(), principal(r).UUID)
	respond(w, h.log, list, err)
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "quizzes"); err != nil {
		writeError(w, h.log, err)
		return
	}
	quiz, err := h.quizzes.Get(r.Context(), uuid)
	respond(w, h.log, quiz, err)
}

func (h *Handler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}
	quiz, err := h.quizzes.Create(r.Context(), principal(r).UUID, req.Title, req.Questions)
	respond(w, h.log, quiz, err)
}

func (h *Handler) updateQuiz(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "quizzes"); err != nil {
		writeError(w, h.log, err)
		return
	}
	var patch domain.QuizPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.log, err)
		return
	}
	quiz, err := h.quizzes.Update(r.Context(), uuid, patch)
	respond(w, h.log, quiz, err)
}

func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "quizzes"); err != nil {
		writeError(w, h.log, err)
		return
	}
	quiz, err := h.quizzes.Remove(r.Context(), uuid)
	respond(w, h.log, quiz, err)
}

func (h *Handler) quizSolutions(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "quizzes"); err != nil {
		writeError(w, h.log, err)
		return
	}
	list, err := h.solutions.ListByQuiz(r.Context(), uuid)
	respond(w, h.log, list, err)
}

func (h *Handler) listSolutions(w http.ResponseWriter, r *http.Request) {
	list, err := h.solutions.ListByUser(r.Context(), principal(r).UUID)
	respond(w, h.log, list, err)
}

func (h *Handler) getSolution(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "solutions"); err != nil {
		writeError(w, h.log, err)
		return
	}
	sol, err := h.solutions.Get(r.Context(), uuid)
	respond(w, h.log, sol, err)
}

func (h *Handler) submitSolution(w http.ResponseWriter, r *http.Request) {
	var rec domain.SolutionRec
	if err := decodeJSON(r, &rec); err != nil {
		writeError(w, h.log, err)
		return
	}
	sol, err := h.solutions.Submit(r.Context(), principal(r).UUID, rec)
	respond(w, h.log, sol, err)
}

func (h *Handler) deleteSolution(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")
	if err := requireOwner(principal(r), uuid, "solutions"); err != nil {
		writeError(w, h.log, err)
		return
	}
	sol, err := h.solutions.Remove(r.Context(), uuid)
	respond(w, h.log, sol, err)
}

func respond(w http.ResponseWriter, log *zap.Logger, v any, err error) {
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
