// Package http wires the scoring engine to its HTTP surface. Handlers
// pull identity from the JWT context and pass it into the engine
// explicitly; nothing below this layer reads ambient state.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/scoreengine/internal/auth/middleware"
	"github.com/mind-engage/scoreengine/internal/engine"
)

// writeErr maps engine errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, engine.ErrCourseNotFound), errors.Is(err, engine.ErrProgressNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, engine.ErrTierLocked):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// studentScope resolves which student a read is about: the caller, unless
// a ?student= override is present and the caller's role may view others.
func studentScope(r *http.Request) string {
	if s := r.URL.Query().Get("student"); s != "" {
		role := auth.RoleFromContext(r.Context())
		if role == "teacher" || role == "admin" {
			return s
		}
	}
	return auth.SubjectFromContext(r.Context())
}

type submitReq struct {
	CourseID    string   `json:"course_id"`
	Tier        string   `json:"tier"`
	Answers     []string `json:"answers"`
	DurationSec int      `json:"duration_sec"`
}

// POST /submissions
// Grades one attempt against the server-side question set. The response
// carries the attempt's own record, the ledger row after the conditional
// update, and any non-fatal warnings.
func SubmitHandler(store engine.Store, pipeline *engine.Pipeline, gate *engine.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.CourseID == "" {
			http.Error(w, "course_id required", http.StatusBadRequest)
			return
		}
		studentID := auth.SubjectFromContext(r.Context())
		tier := engine.ParseTier(req.Tier)

		ok, err := gate.IsUnlocked(r.Context(), studentID, req.CourseID, tier)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !ok {
			writeErr(w, engine.ErrTierLocked)
			return
		}

		questions, err := store.GetQuestions(r.Context(), req.CourseID, tier)
		if err != nil {
			writeErr(w, err)
			return
		}
		res, err := pipeline.Submit(r.Context(), engine.SubmitInput{
			StudentID:   studentID,
			CourseID:    req.CourseID,
			Tier:        tier,
			Questions:   questions,
			Answers:     req.Answers,
			DurationSec: req.DurationSec,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// GET /submissions?course=
func ListSubmissionsHandler(store engine.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := store.ListSubmissions(r.Context(), studentScope(r), r.URL.Query().Get("course"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if recs == nil {
			recs = []engine.SubmissionRecord{}
		}
		_ = json.NewEncoder(w).Encode(recs)
	}
}

// GET /progress/{courseID}
func GetProgressHandler(store engine.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := store.ListProgress(r.Context(), studentScope(r), chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if recs == nil {
			recs = []engine.ProgressRecord{}
		}
		_ = json.NewEncoder(w).Encode(recs)
	}
}

// GET /unlocks/{courseID}
func UnlocksHandler(gate *engine.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unlocks, err := gate.Unlocks(r.Context(), studentScope(r), chi.URLParam(r, "courseID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(unlocks)
	}
}

// GET /summary?course=
// Aggregated subject scores for the student, floored by the diagnostic
// baseline when one is on file.
func SummaryHandler(store engine.Store, agg *engine.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := studentScope(r)
		baseline, err := store.GetBaseline(r.Context(), studentID)
		if errors.Is(err, engine.ErrProgressNotFound) {
			baseline = engine.DefaultBaseline()
		} else if err != nil {
			writeErr(w, err)
			return
		}
		sum, err := agg.Summarize(r.Context(), studentID, r.URL.Query().Get("course"), baseline)
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// PUT /baseline
func PutBaselineHandler(store engine.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b engine.DiagnosticBaseline
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		studentID := auth.SubjectFromContext(r.Context())
		if err := store.PutBaseline(r.Context(), studentID, b); err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(b)
	}
}

// GET /baseline
func GetBaselineHandler(store engine.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := store.GetBaseline(r.Context(), studentScope(r))
		if errors.Is(err, engine.ErrProgressNotFound) {
			b = engine.DefaultBaseline()
		} else if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(b)
	}
}
