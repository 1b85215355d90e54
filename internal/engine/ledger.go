package engine

import (
	"context"
	"time"
)

// Ledger keeps the best result ever recorded per (student, course, tier).
// Updates go through a strict monotonic ratchet: retakes can raise the
// stored best, never lower it.
type Ledger struct {
	store Store
	scale ScaleTable
	now   func() time.Time
}

func NewLedger(store Store, scale ScaleTable) *Ledger {
	return &Ledger{store: store, scale: scale, now: time.Now}
}

// UpdateIfBetter records newPercent for the triple when it beats the
// stored best. Passed is evaluated against whichever percentage ends up
// stored, so a tier once passed stays passed. The conditional write itself
// happens inside the store as one atomic operation.
func (l *Ledger) UpdateIfBetter(ctx context.Context, studentID, courseID string, tier DifficultyTier, newPercent float64) (ProgressRecord, error) {
	course, err := l.store.GetCourse(ctx, courseID)
	if err != nil {
		return ProgressRecord{}, err
	}
	newPercent = clampPercent(newPercent)
	rec := ProgressRecord{
		StudentID:   studentID,
		CourseID:    courseID,
		Tier:        tier,
		Category:    course.Category,
		BestPercent: newPercent,
		BestScaled:  l.scale.Scale(newPercent, tier, course.Category),
		Passed:      newPercent >= PassThreshold,
		UpdatedAt:   l.now().Unix(),
	}
	return l.store.UpsertProgressIfBetter(ctx, rec)
}

// Best returns the stored record for the triple, or ErrProgressNotFound.
func (l *Ledger) Best(ctx context.Context, studentID, courseID string, tier DifficultyTier) (ProgressRecord, error) {
	return l.store.GetProgress(ctx, studentID, courseID, tier)
}
