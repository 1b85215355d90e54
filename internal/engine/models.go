package engine

import "strings"

// SubjectCategory buckets courses and score sections into the two
// reported subjects.
type SubjectCategory string

const (
	CategoryMath           SubjectCategory = "math"
	CategoryReadingWriting SubjectCategory = "reading_writing"
)

// ParseCategory maps a free-form tag to a known category. Unrecognized
// values fall back to reading_writing rather than erroring; validation at
// the boundary, fallback inside.
func ParseCategory(s string) SubjectCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "math", "maths", "quant":
		return CategoryMath
	case "reading_writing", "rw", "reading", "writing", "english", "verbal":
		return CategoryReadingWriting
	default:
		return CategoryReadingWriting
	}
}

// ParseCategoryStrict is the section-grading variant: it reports whether
// the tag resolved instead of silently falling back, so the pipeline can
// degrade deliberately on bad section data.
func ParseCategoryStrict(s string) (SubjectCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "math", "maths", "quant":
		return CategoryMath, true
	case "reading_writing", "rw", "reading", "writing", "english", "verbal":
		return CategoryReadingWriting, true
	default:
		return "", false
	}
}

// DifficultyTier is one of the three fixed difficulty levels gating course
// content. Tiers are totally ordered: easy < medium < hard.
type DifficultyTier string

const (
	TierEasy   DifficultyTier = "easy"
	TierMedium DifficultyTier = "medium"
	TierHard   DifficultyTier = "hard"
)

// TierOrder lists tiers from easiest to hardest. Gate evaluation and
// prerequisite checks iterate this slice; keep it sorted.
var TierOrder = []DifficultyTier{TierEasy, TierMedium, TierHard}

// ParseTier resolves a tier tag, defaulting to medium for anything it
// doesn't recognize so a bad value degrades to the middle band instead of
// failing a submission.
func ParseTier(s string) DifficultyTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "e":
		return TierEasy
	case "medium", "m", "med":
		return TierMedium
	case "hard", "h":
		return TierHard
	default:
		return TierMedium
	}
}

// Prerequisite returns the tier that must be passed before t unlocks, or
// "" for the base tier.
func (t DifficultyTier) Prerequisite() DifficultyTier {
	switch t {
	case TierMedium:
		return TierEasy
	case TierHard:
		return TierMedium
	default:
		return ""
	}
}

// Course is the minimal course surface the engine needs: an identity and a
// subject category for scale resolution.
type Course struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Category  SubjectCategory `json:"category"`
	CreatedAt int64           `json:"created_at,omitempty"`
}

// Question is one quiz item. Options is empty for free-response items.
// AnswerKey normally holds the literal correct answer; for some imported
// free-response items it holds a choice letter instead (see grading
// package for the display-answer fallback).
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	AnswerKey   string   `json:"answer_key,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Section     string   `json:"section,omitempty"`
}

// ProgressRecord is the best-known result for one (student, course, tier)
// triple. BestPercent and BestScaled only ever increase; Passed never
// reverts to false once set.
type ProgressRecord struct {
	StudentID   string          `json:"student_id"`
	CourseID    string          `json:"course_id"`
	Tier        DifficultyTier  `json:"tier"`
	Category    SubjectCategory `json:"category"`
	BestPercent float64         `json:"best_percent"`
	BestScaled  int             `json:"best_scaled"`
	Passed      bool            `json:"passed"`
	UpdatedAt   int64           `json:"updated_at"`
}

// SectionResult is the per-section slice of a graded attempt.
type SectionResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Scaled  int `json:"scaled"`
}

// SubmissionRecord is the immutable audit entry for one graded attempt.
// It always reports the attempt's own result, which may be lower than the
// ledger's stored best.
type SubmissionRecord struct {
	ID          string                            `json:"id"`
	StudentID   string                            `json:"student_id"`
	CourseID    string                            `json:"course_id"`
	Tier        DifficultyTier                    `json:"tier"`
	RawScore    int                               `json:"raw_score"`
	Total       int                               `json:"total"`
	Percent     float64                           `json:"percent"`
	Scaled      int                               `json:"scaled"`
	Sections    map[SubjectCategory]SectionResult `json:"sections,omitempty"`
	DurationSec int                               `json:"duration_sec"`
	SubmittedAt int64                             `json:"submitted_at"`
}

// DiagnosticBaseline is the student-supplied starting point. Zero-value
// fields are filled from the defaults; the baseline acts as a floor under
// aggregated scores, never a ceiling.
type DiagnosticBaseline struct {
	MathScore   int `json:"math_score"`
	RWScore     int `json:"rw_score"`
	TargetScore int `json:"target_score"`
}

const (
	DefaultBaselineMath   = 400
	DefaultBaselineRW     = 400
	DefaultBaselineTarget = 1500
)

// DefaultBaseline is used when a student never took the diagnostic.
func DefaultBaseline() DiagnosticBaseline {
	return DiagnosticBaseline{
		MathScore:   DefaultBaselineMath,
		RWScore:     DefaultBaselineRW,
		TargetScore: DefaultBaselineTarget,
	}
}

// withDefaults fills unset baseline fields.
func (b DiagnosticBaseline) withDefaults() DiagnosticBaseline {
	if b.MathScore <= 0 {
		b.MathScore = DefaultBaselineMath
	}
	if b.RWScore <= 0 {
		b.RWScore = DefaultBaselineRW
	}
	if b.TargetScore <= 0 {
		b.TargetScore = DefaultBaselineTarget
	}
	return b
}

// Summary is the aggregated score view for dashboards.
type Summary struct {
	MathScore int `json:"math_score"`
	RWScore   int `json:"rw_score"`
	Total     int `json:"total"`
	Target    int `json:"target"`
	Gap       int `json:"gap"`
}
