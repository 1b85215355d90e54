package engine

import "context"

// Store is the persistence surface the engine needs. Implementations must
// make UpsertProgressIfBetter an atomic conditional write per
// (student, course, tier) key: concurrent calls for the same key serialize
// so the stored percentage is the maximum among them, regardless of
// completion order. All other operations are plain reads/writes with no
// cross-key coordination.
type Store interface {
	PutCourse(ctx context.Context, c Course) error
	GetCourse(ctx context.Context, id string) (Course, error)

	// PutQuestions replaces the question set for a (course, tier).
	PutQuestions(ctx context.Context, courseID string, tier DifficultyTier, qs []Question) error
	// GetQuestions returns the full question set including answer keys;
	// callers serving students strip the keys themselves.
	GetQuestions(ctx context.Context, courseID string, tier DifficultyTier) ([]Question, error)

	// SaveSubmission appends one immutable audit record.
	SaveSubmission(ctx context.Context, rec SubmissionRecord) error
	ListSubmissions(ctx context.Context, studentID, courseID string) ([]SubmissionRecord, error)

	// UpsertProgressIfBetter writes rec only when rec.BestPercent is
	// strictly greater than the stored percentage for the same triple
	// (absence counts as -inf). It returns the row that ends up stored,
	// which is the old row when the condition fails.
	UpsertProgressIfBetter(ctx context.Context, rec ProgressRecord) (ProgressRecord, error)
	GetProgress(ctx context.Context, studentID, courseID string, tier DifficultyTier) (ProgressRecord, error)
	// ListProgress returns all records for a student; courseID narrows
	// the scope when non-empty.
	ListProgress(ctx context.Context, studentID, courseID string) ([]ProgressRecord, error)

	GetBaseline(ctx context.Context, studentID string) (DiagnosticBaseline, error)
	PutBaseline(ctx context.Context, studentID string, b DiagnosticBaseline) error
}
