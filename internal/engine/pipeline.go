package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/scoreengine/internal/grading"
	"github.com/mind-engage/scoreengine/internal/metrics"
)

// Pipeline orchestrates one quiz submission end to end: per-question
// matching, raw/percent/scaled aggregation, section breakdown, the
// append-only audit record, and the ledger ratchet.
type Pipeline struct {
	store   Store
	scale   ScaleTable
	ledger  *Ledger
	matcher *grading.Matcher
	mx      *metrics.Manager
	now     func() time.Time
}

func NewPipeline(store Store, scale ScaleTable, mx *metrics.Manager) *Pipeline {
	return &Pipeline{
		store:   store,
		scale:   scale,
		ledger:  NewLedger(store, scale),
		matcher: grading.NewMatcher(),
		mx:      mx,
		now:     time.Now,
	}
}

// SubmitInput is one attempt to grade. Answers is index-aligned with
// Questions; an empty string means the question was left unanswered.
type SubmitInput struct {
	StudentID   string
	CourseID    string
	Tier        DifficultyTier
	Questions   []Question
	Answers     []string
	DurationSec int
}

// SubmitResult carries the attempt's own record plus the ledger row after
// the conditional update and any non-fatal warnings.
type SubmitResult struct {
	Record   SubmissionRecord `json:"record"`
	Progress ProgressRecord   `json:"progress"`
	Warnings []Warning        `json:"warnings,omitempty"`
}

// Submit grades one attempt. Failure semantics, in order:
//   - malformed input returns ErrInvalidInput with nothing persisted;
//   - a section-breakdown failure degrades to whole-test grading and the
//     submit continues (WarnGradingDegraded);
//   - a failed submission save is fatal (the audit record is the one thing
//     that must not be lost);
//   - a failed ledger update after a saved submission is reported as
//     WarnLedgerUpdate, never as an error, so the student still sees this
//     attempt's score.
//
// The returned record always reflects this attempt, even when it did not
// beat the stored best.
func (p *Pipeline) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	started := p.now()

	if len(in.Questions) == 0 || len(in.Answers) != len(in.Questions) {
		return SubmitResult{}, fmt.Errorf("%w: %d questions, %d answers",
			ErrInvalidInput, len(in.Questions), len(in.Answers))
	}
	if in.StudentID == "" || in.CourseID == "" {
		return SubmitResult{}, fmt.Errorf("%w: student and course ids required", ErrInvalidInput)
	}

	course, err := p.store.GetCourse(ctx, in.CourseID)
	if err != nil {
		return SubmitResult{}, err
	}

	correct := make([]bool, len(in.Questions))
	raw := 0
	for i, q := range in.Questions {
		gq := grading.Q{AnswerKey: q.AnswerKey, Options: q.Options, Explanation: q.Explanation}
		if p.matcher.Correct(gq, in.Answers[i]) {
			correct[i] = true
			raw++
		}
	}
	percent := float64(raw) / float64(len(in.Questions)) * 100

	var warnings []Warning
	sections, err := p.sectionBreakdown(in.Questions, correct, in.Tier)
	if err != nil {
		log.Printf("submit %s/%s: section grading degraded: %v", in.StudentID, in.CourseID, err)
		sections = p.singleSection(course.Category, raw, len(in.Questions), percent, in.Tier)
		warnings = append(warnings, WarnGradingDegraded)
		p.mx.GradingDegraded()
	}
	if sections == nil {
		sections = p.singleSection(course.Category, raw, len(in.Questions), percent, in.Tier)
	}

	rec := SubmissionRecord{
		ID:          uuid.NewString(),
		StudentID:   in.StudentID,
		CourseID:    in.CourseID,
		Tier:        in.Tier,
		RawScore:    raw,
		Total:       len(in.Questions),
		Percent:     percent,
		Scaled:      p.scale.Scale(percent, in.Tier, course.Category),
		Sections:    sections,
		DurationSec: in.DurationSec,
		SubmittedAt: p.now().Unix(),
	}

	if err := p.store.SaveSubmission(ctx, rec); err != nil {
		return SubmitResult{}, fmt.Errorf("save submission: %w", err)
	}

	res := SubmitResult{Record: rec, Warnings: warnings}
	prog, err := p.ledger.UpdateIfBetter(ctx, in.StudentID, in.CourseID, in.Tier, percent)
	if err != nil {
		log.Printf("submit %s/%s: ledger update failed: %v", in.StudentID, in.CourseID, err)
		res.Warnings = append(res.Warnings, WarnLedgerUpdate)
		p.mx.LedgerUpdateFailed()
	} else {
		res.Progress = prog
		if prog.BestPercent == clampPercent(percent) && percent > 0 {
			p.mx.BestScoreImproved()
		}
	}

	p.mx.SubmissionGraded()
	p.mx.ObserveGradingSeconds(p.now().Sub(started).Seconds())
	return res, nil
}

// sectionBreakdown groups results by the questions' section tags and
// scales each group in the submission's tier. It is strict on purpose: an
// unresolvable tag (or a mix of tagged and untagged questions) errors so
// the caller can take the degraded path instead of guessing. Untagged
// submissions are not an error; they come back as nil and the caller
// treats the whole test as one section.
func (p *Pipeline) sectionBreakdown(qs []Question, correct []bool, tier DifficultyTier) (map[SubjectCategory]SectionResult, error) {
	tagged := 0
	for _, q := range qs {
		if q.Section != "" {
			tagged++
		}
	}
	if tagged == 0 {
		return nil, nil
	}
	if tagged != len(qs) {
		return nil, fmt.Errorf("%d of %d questions missing section tags", len(qs)-tagged, len(qs))
	}

	out := map[SubjectCategory]SectionResult{}
	for i, q := range qs {
		cat, ok := ParseCategoryStrict(q.Section)
		if !ok {
			return nil, fmt.Errorf("unknown section tag %q on question %s", q.Section, q.ID)
		}
		s := out[cat]
		s.Total++
		if correct[i] {
			s.Correct++
		}
		out[cat] = s
	}
	for cat, s := range out {
		pct := float64(s.Correct) / float64(s.Total) * 100
		s.Scaled = p.scale.Scale(pct, tier, cat)
		out[cat] = s
	}
	return out, nil
}

// singleSection is the degraded path: the whole attempt as one section in
// the course's own category. Pure, so it is testable independently of
// whatever made the primary path fail.
func (p *Pipeline) singleSection(cat SubjectCategory, raw, total int, percent float64, tier DifficultyTier) map[SubjectCategory]SectionResult {
	return map[SubjectCategory]SectionResult{
		cat: {Correct: raw, Total: total, Scaled: p.scale.Scale(percent, tier, cat)},
	}
}
