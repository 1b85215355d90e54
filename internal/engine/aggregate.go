package engine

import "context"

// caps on reported scores, matching the scale's outer bands
const (
	maxSectionScore = 800
	maxTotalScore   = 1600
)

// Aggregator folds a student's ProgressRecords into the dashboard summary.
// It reads the ledger only, never individual submissions, and re-scales
// each record from its stored best percentage so a reconfigured scale
// table is picked up without a data migration.
type Aggregator struct {
	store Store
	scale ScaleTable
}

func NewAggregator(store Store, scale ScaleTable) *Aggregator {
	return &Aggregator{store: store, scale: scale}
}

// Summarize computes per-subject bests across the scope (one course when
// courseID is non-empty, otherwise every course the student has records
// for). The diagnostic baseline is a floor under each subject score; both
// subjects cap at 800 and the total at 1600.
func (a *Aggregator) Summarize(ctx context.Context, studentID, courseID string, baseline DiagnosticBaseline) (Summary, error) {
	baseline = baseline.withDefaults()

	recs, err := a.store.ListProgress(ctx, studentID, courseID)
	if err != nil {
		return Summary{}, err
	}

	best := map[SubjectCategory]int{}
	for _, r := range recs {
		scaled := a.scale.Scale(r.BestPercent, r.Tier, r.Category)
		if scaled > best[r.Category] {
			best[r.Category] = scaled
		}
	}

	math := capScore(maxInt(baseline.MathScore, best[CategoryMath]), maxSectionScore)
	rw := capScore(maxInt(baseline.RWScore, best[CategoryReadingWriting]), maxSectionScore)
	total := capScore(math+rw, maxTotalScore)

	gap := baseline.TargetScore - total
	if gap < 0 {
		gap = 0
	}
	return Summary{
		MathScore: math,
		RWScore:   rw,
		Total:     total,
		Target:    baseline.TargetScore,
		Gap:       gap,
	}, nil
}

func capScore(v, cap int) int {
	if v > cap {
		return cap
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
