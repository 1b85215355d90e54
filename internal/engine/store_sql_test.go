package engine_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/scoreengine/internal/db"
	"github.com/mind-engage/scoreengine/internal/engine"
)

func newSQLStore(t *testing.T) *engine.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "engine_test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return engine.NewSQLStore(dbh, "sqlite")
}

func TestSQLStoreCourseRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	_, err := s.GetCourse(ctx, "nope")
	assert.ErrorIs(t, err, engine.ErrCourseNotFound)

	require.NoError(t, s.PutCourse(ctx, engine.Course{ID: "m1", Title: "Algebra", Category: engine.CategoryMath}))
	c, err := s.GetCourse(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", c.Title)
	assert.Equal(t, engine.CategoryMath, c.Category)

	// upsert keeps the id, replaces the rest
	require.NoError(t, s.PutCourse(ctx, engine.Course{ID: "m1", Title: "Algebra II", Category: engine.CategoryMath}))
	c, err = s.GetCourse(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", c.Title)
}

func TestSQLStoreQuestionsRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)
	require.NoError(t, s.PutCourse(ctx, engine.Course{ID: "m1", Title: "Algebra", Category: engine.CategoryMath}))

	qs := []engine.Question{
		{ID: "q1", Prompt: "2+2?", AnswerKey: "4", Section: "math"},
		{ID: "q2", Prompt: "3*3?", AnswerKey: "9", Options: []string{"6", "9"}},
	}
	require.NoError(t, s.PutQuestions(ctx, "m1", engine.TierEasy, qs))

	got, err := s.GetQuestions(ctx, "m1", engine.TierEasy)
	require.NoError(t, err)
	assert.Equal(t, qs, got)

	_, err = s.GetQuestions(ctx, "m1", engine.TierHard)
	assert.ErrorIs(t, err, engine.ErrCourseNotFound)

	err = s.PutQuestions(ctx, "ghost", engine.TierEasy, qs)
	assert.ErrorIs(t, err, engine.ErrCourseNotFound)
}

func TestSQLStoreProgressRatchet(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	first := engine.ProgressRecord{
		StudentID: "s1", CourseID: "m1", Tier: engine.TierEasy,
		Category: engine.CategoryMath, BestPercent: 90, BestScaled: 470,
		Passed: true, UpdatedAt: 100,
	}
	got, err := s.UpsertProgressIfBetter(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.BestPercent)

	// lower percentage: conditional update is a no-op
	lower := first
	lower.BestPercent, lower.BestScaled, lower.UpdatedAt = 60, 380, 200
	got, err = s.UpsertProgressIfBetter(ctx, lower)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.BestPercent)
	assert.Equal(t, 470, got.BestScaled)
	assert.Equal(t, int64(100), got.UpdatedAt)

	// higher percentage wins
	higher := first
	higher.BestPercent, higher.BestScaled, higher.UpdatedAt = 95, 485, 300
	got, err = s.UpsertProgressIfBetter(ctx, higher)
	require.NoError(t, err)
	assert.Equal(t, 95.0, got.BestPercent)
	assert.Equal(t, int64(300), got.UpdatedAt)

	recs, err := s.ListProgress(ctx, "s1", "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Passed)
}

func TestSQLStoreSubmissionsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	recs := []engine.SubmissionRecord{
		{ID: "a", StudentID: "s1", CourseID: "m1", Tier: engine.TierEasy, RawScore: 8, Total: 10,
			Percent: 80, Scaled: 440, DurationSec: 300, SubmittedAt: 100,
			Sections: map[engine.SubjectCategory]engine.SectionResult{
				engine.CategoryMath: {Correct: 8, Total: 10, Scaled: 440},
			}},
		{ID: "b", StudentID: "s1", CourseID: "m1", Tier: engine.TierEasy, RawScore: 5, Total: 10,
			Percent: 50, Scaled: 350, DurationSec: 250, SubmittedAt: 200},
	}
	for _, r := range recs {
		require.NoError(t, s.SaveSubmission(ctx, r))
	}

	got, err := s.ListSubmissions(ctx, "s1", "m1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// newest first
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, 8, got[1].Sections[engine.CategoryMath].Correct)

	got, err = s.ListSubmissions(ctx, "s2", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLStoreBaseline(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	_, err := s.GetBaseline(ctx, "s1")
	assert.ErrorIs(t, err, engine.ErrProgressNotFound)

	b := engine.DiagnosticBaseline{MathScore: 520, RWScore: 480, TargetScore: 1400}
	require.NoError(t, s.PutBaseline(ctx, "s1", b))
	got, err := s.GetBaseline(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, b, got)

	b.TargetScore = 1500
	require.NoError(t, s.PutBaseline(ctx, "s1", b))
	got, _ = s.GetBaseline(ctx, "s1")
	assert.Equal(t, 1500, got.TargetScore)
}
