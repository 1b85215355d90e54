package engine

import "errors"

var (
	// ErrInvalidInput rejects a malformed submission before anything is
	// graded or persisted.
	ErrInvalidInput = errors.New("invalid submission input")

	// ErrCourseNotFound is returned by stores for unknown course ids.
	ErrCourseNotFound = errors.New("course not found")

	// ErrProgressNotFound is returned by stores when no ProgressRecord
	// exists for a (student, course, tier) triple.
	ErrProgressNotFound = errors.New("progress not found")

	// ErrTierLocked rejects reads of question sets the student has not
	// unlocked yet.
	ErrTierLocked = errors.New("tier is locked")
)

// Warning is a non-fatal condition attached to an otherwise successful
// submission. Warnings are reported to the caller but never abort a
// submit.
type Warning string

const (
	// WarnGradingDegraded: section-aware grading failed and the attempt
	// was graded as a single section instead.
	WarnGradingDegraded Warning = "grading_degraded"

	// WarnLedgerUpdate: the submission record was saved but the
	// best-score ledger could not be updated; progression may be stale
	// until the next successful write.
	WarnLedgerUpdate Warning = "ledger_update_failed"
)
