package engine

import "math"

// Band is one inclusive scaled-score range for a (category, tier) pair.
type Band struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ScaleTable maps (category, tier) to its scaled band. Bands are distinct
// per tier and may overlap across tiers; the overlap is what makes the
// scale adaptive: a perfect easy run still scores below a perfect hard run.
type ScaleTable map[SubjectCategory]map[DifficultyTier]Band

// DefaultScaleTable mirrors the digital-SAT-style bands: each subject
// spans 200..800 overall, carved into tier bands.
func DefaultScaleTable() ScaleTable {
	bands := map[DifficultyTier]Band{
		TierEasy:   {Min: 200, Max: 500},
		TierMedium: {Min: 400, Max: 650},
		TierHard:   {Min: 550, Max: 800},
	}
	return ScaleTable{
		CategoryMath:           bands,
		CategoryReadingWriting: bands,
	}
}

// BandFor resolves the band for a tier/category. Unknown tiers resolve to
// medium, unknown categories to reading_writing; never an error.
func (t ScaleTable) BandFor(tier DifficultyTier, cat SubjectCategory) Band {
	byTier, ok := t[cat]
	if !ok {
		byTier = t[CategoryReadingWriting]
	}
	b, ok := byTier[tier]
	if !ok {
		b = byTier[TierMedium]
	}
	return b
}

// Scale converts a raw percentage at a given tier into the tier's scaled
// band by linear interpolation:
//
//	scaled = round(min + pct/100 * (max-min))
//
// The percentage is clamped to [0,100] first (NaN counts as 0), so the
// result is always inside the band. Pure function, no side effects.
func (t ScaleTable) Scale(percent float64, tier DifficultyTier, cat SubjectCategory) int {
	b := t.BandFor(tier, cat)
	p := clampPercent(percent)
	return b.Min + int(math.Round(p/100*float64(b.Max-b.Min)))
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// PassThreshold is the minimum percentage that marks a tier as passed and
// unlocks the next one.
const PassThreshold = 40.0
