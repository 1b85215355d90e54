package engine

import (
	"context"
	"errors"
)

// Gate derives tier unlock state from ledger contents. Nothing here is
// persisted: every read re-evaluates against the latest ProgressRecords,
// so a late-arriving higher score reflects in gating on the next read with
// no separate synchronization step.
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// IsUnlocked reports whether the student may attempt tier in the course.
// Easy is always open; each later tier requires a passed record for its
// prerequisite. Unlocks are irreversible because the ledger never lowers
// a passed flag.
func (g *Gate) IsUnlocked(ctx context.Context, studentID, courseID string, tier DifficultyTier) (bool, error) {
	prereq := tier.Prerequisite()
	if prereq == "" {
		return true, nil
	}
	rec, err := g.store.GetProgress(ctx, studentID, courseID, prereq)
	if errors.Is(err, ErrProgressNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rec.Passed, nil
}

// Unlocks returns the full tier→unlocked map for one course, evaluated in
// tier order off a single progress read.
func (g *Gate) Unlocks(ctx context.Context, studentID, courseID string) (map[DifficultyTier]bool, error) {
	recs, err := g.store.ListProgress(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	passed := map[DifficultyTier]bool{}
	for _, r := range recs {
		if r.Passed {
			passed[r.Tier] = true
		}
	}
	out := make(map[DifficultyTier]bool, len(TierOrder))
	for _, t := range TierOrder {
		prereq := t.Prerequisite()
		out[t] = prereq == "" || passed[prereq]
	}
	return out, nil
}
