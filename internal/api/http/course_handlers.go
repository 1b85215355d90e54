package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/scoreengine/internal/auth/middleware"
	"github.com/mind-engage/scoreengine/internal/engine"
)

type putCourseReq struct {
	Title    string                       `json:"title"`
	Category string                       `json:"category"`
	Tiers    map[string][]engine.Question `json:"tiers,omitempty"` // tier -> question set
}

// PUT /courses/{courseID}
// Upserts course metadata and, when present, per-tier question sets.
func PutCourseHandler(store engine.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		var req putCourseReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		c := engine.Course{
			ID:       courseID,
			Title:    req.Title,
			Category: engine.ParseCategory(req.Category),
		}
		if err := store.PutCourse(r.Context(), c); err != nil {
			writeErr(w, err)
			return
		}
		for tier, qs := range req.Tiers {
			if err := store.PutQuestions(r.Context(), courseID, engine.ParseTier(tier), qs); err != nil {
				writeErr(w, err)
				return
			}
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

// GET /courses/{courseID}
func GetCourseHandler(store engine.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetCourse(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(c)
	}
}

// GET /courses/{courseID}/questions?tier=
// Serves the question set for an unlocked tier, with answer keys and
// explanations stripped. Locked tiers return 403.
func GetQuestionsHandler(store engine.Store, gate *engine.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		tier := engine.ParseTier(r.URL.Query().Get("tier"))
		studentID := auth.SubjectFromContext(r.Context())

		if auth.RoleFromContext(r.Context()) == "student" {
			ok, err := gate.IsUnlocked(r.Context(), studentID, courseID, tier)
			if err != nil {
				writeErr(w, err)
				return
			}
			if !ok {
				writeErr(w, engine.ErrTierLocked)
				return
			}
		}

		qs, err := store.GetQuestions(r.Context(), courseID, tier)
		if err != nil {
			writeErr(w, err)
			return
		}
		// hide answers from students
		if auth.RoleFromContext(r.Context()) == "student" {
			for i := range qs {
				qs[i].AnswerKey = ""
				qs[i].Explanation = ""
			}
		}
		_ = json.NewEncoder(w).Encode(qs)
	}
}
