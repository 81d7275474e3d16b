package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ecolife-backend/internal/content"
	"ecolife-backend/internal/wellness"

	"github.com/go-chi/chi/v5"
)

// ContentHandler serves the bundled blog, recommendations and wellness quiz.
type ContentHandler struct {
	library *content.Library
}

func NewContentHandler(library *content.Library) *ContentHandler {
	return &ContentHandler{library: library}
}

type QuizScoreRequest struct {
	Answers []int `json:"answers"`
}

// --- GET /api/blog ---

func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.library.Posts())
}

// --- GET /api/blog/{id} ---

func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post := h.library.Post(chi.URLParam(r, "id"))
	if post == nil {
		writeError(w, http.StatusNotFound, "Post not found.")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// --- GET /api/recommendations?area= ---

func (h *ContentHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	area := strings.TrimSpace(r.URL.Query().Get("area"))
	if area == "" {
		writeJSON(w, http.StatusOK, h.library.Recommendations())
		return
	}

	rec := h.library.Recommendation(area)
	if rec == nil {
		writeError(w, http.StatusNotFound, "No recommendations for that area.")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// --- GET /api/wellness/quiz ---

func (h *ContentHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.library.Quiz())
}

// --- POST /api/wellness/quiz/score ---

func (h *ContentHandler) ScoreQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Answers are required.")
		return
	}

	result, err := wellness.Score(req.Answers, len(h.library.Quiz()))
	switch {
	case errors.Is(err, wellness.ErrAnswerCount):
		writeError(w, http.StatusBadRequest, "Please answer every question.")
		return
	case errors.Is(err, wellness.ErrAnswerRange):
		writeError(w, http.StatusBadRequest, "Each answer must be between 0 and 3.")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
