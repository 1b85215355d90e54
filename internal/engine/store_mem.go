package engine

import (
	"context"
	"sort"
	"sync"
)

type progressKey struct {
	student string
	course  string
	tier    DifficultyTier
}

type questionsKey struct {
	course string
	tier   DifficultyTier
}

// memoryStore backs tests and offline single-process runs. The mutex makes
// UpsertProgressIfBetter's read-compare-write a single critical section,
// which is all the atomicity contract asks for.
type memoryStore struct {
	mu          sync.RWMutex
	courses     map[string]Course
	questions   map[questionsKey][]Question
	submissions []SubmissionRecord
	progress    map[progressKey]ProgressRecord
	baselines   map[string]DiagnosticBaseline
}

func NewInMemoryStore() Store {
	return &memoryStore{
		courses:   map[string]Course{},
		questions: map[questionsKey][]Question{},
		progress:  map[progressKey]ProgressRecord{},
		baselines: map[string]DiagnosticBaseline{},
	}
}

func (m *memoryStore) PutCourse(_ context.Context, c Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *memoryStore) GetCourse(_ context.Context, id string) (Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return Course{}, ErrCourseNotFound
	}
	return c, nil
}

func (m *memoryStore) PutQuestions(_ context.Context, courseID string, tier DifficultyTier, qs []Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[courseID]; !ok {
		return ErrCourseNotFound
	}
	cp := make([]Question, len(qs))
	copy(cp, qs)
	m.questions[questionsKey{courseID, tier}] = cp
	return nil
}

func (m *memoryStore) GetQuestions(_ context.Context, courseID string, tier DifficultyTier) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	qs, ok := m.questions[questionsKey{courseID, tier}]
	if !ok {
		return nil, ErrCourseNotFound
	}
	cp := make([]Question, len(qs))
	copy(cp, qs)
	return cp, nil
}

func (m *memoryStore) SaveSubmission(_ context.Context, rec SubmissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, rec)
	return nil
}

func (m *memoryStore) ListSubmissions(_ context.Context, studentID, courseID string) ([]SubmissionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []SubmissionRecord
	for _, s := range m.submissions {
		if s.StudentID == studentID && (courseID == "" || s.CourseID == courseID) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt > out[j].SubmittedAt })
	return out, nil
}

func (m *memoryStore) UpsertProgressIfBetter(_ context.Context, rec ProgressRecord) (ProgressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := progressKey{rec.StudentID, rec.CourseID, rec.Tier}
	if cur, ok := m.progress[k]; ok && rec.BestPercent <= cur.BestPercent {
		return cur, nil
	}
	m.progress[k] = rec
	return rec, nil
}

func (m *memoryStore) GetProgress(_ context.Context, studentID, courseID string, tier DifficultyTier) (ProgressRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.progress[progressKey{studentID, courseID, tier}]
	if !ok {
		return ProgressRecord{}, ErrProgressNotFound
	}
	return rec, nil
}

func (m *memoryStore) ListProgress(_ context.Context, studentID, courseID string) ([]ProgressRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ProgressRecord
	for k, rec := range m.progress {
		if k.student == studentID && (courseID == "" || k.course == courseID) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CourseID != out[j].CourseID {
			return out[i].CourseID < out[j].CourseID
		}
		return tierRank(out[i].Tier) < tierRank(out[j].Tier)
	})
	return out, nil
}

func (m *memoryStore) GetBaseline(_ context.Context, studentID string) (DiagnosticBaseline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.baselines[studentID]
	if !ok {
		return DiagnosticBaseline{}, ErrProgressNotFound
	}
	return b, nil
}

func (m *memoryStore) PutBaseline(_ context.Context, studentID string, b DiagnosticBaseline) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baselines[studentID] = b
	return nil
}

func tierRank(t DifficultyTier) int {
	for i, tt := range TierOrder {
		if tt == t {
			return i
		}
	}
	return len(TierOrder)
}
