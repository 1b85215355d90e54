package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore persists the engine on sqlite or postgres. Placeholder style
// ($1, $2, ...) is shared by the pgx stdlib driver and modernc sqlite, so
// one query set serves both.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutCourse(ctx context.Context, c Course) error {
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO courses (id,title,category,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, category=EXCLUDED.category`,
		c.ID, c.Title, string(c.Category), c.CreatedAt)
	return err
}

func (s *SQLStore) GetCourse(ctx context.Context, id string) (Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,category,created_at FROM courses WHERE id=$1`, id)
	var c Course
	var cat string
	if err := row.Scan(&c.ID, &c.Title, &cat, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrCourseNotFound
		}
		return Course{}, err
	}
	c.Category = ParseCategory(cat)
	return c, nil
}

func (s *SQLStore) PutQuestions(ctx context.Context, courseID string, tier DifficultyTier, qs []Question) error {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return err
	}
	qj, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO course_questions (course_id,tier,questions_json)
		VALUES ($1,$2,$3)
		ON CONFLICT (course_id,tier) DO UPDATE SET questions_json=EXCLUDED.questions_json`,
		courseID, string(tier), string(qj))
	return err
}

func (s *SQLStore) GetQuestions(ctx context.Context, courseID string, tier DifficultyTier) ([]Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT questions_json FROM course_questions WHERE course_id=$1 AND tier=$2`, courseID, string(tier))
	var qjson string
	if err := row.Scan(&qjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	var qs []Question
	if err := json.Unmarshal([]byte(qjson), &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *SQLStore) SaveSubmission(ctx context.Context, rec SubmissionRecord) error {
	sj, err := json.Marshal(rec.Sections)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO submissions
		(id,student_id,course_id,tier,raw_score,total_questions,percent,scaled,sections_json,duration_sec,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rec.ID, rec.StudentID, rec.CourseID, string(rec.Tier), rec.RawScore, rec.Total,
		rec.Percent, rec.Scaled, string(sj), rec.DurationSec, rec.SubmittedAt)
	return err
}

func (s *SQLStore) ListSubmissions(ctx context.Context, studentID, courseID string) ([]SubmissionRecord, error) {
	q := `SELECT id,student_id,course_id,tier,raw_score,total_questions,percent,scaled,sections_json,duration_sec,submitted_at
		FROM submissions WHERE student_id=$1`
	args := []interface{}{studentID}
	if courseID != "" {
		q += ` AND course_id=$2`
		args = append(args, courseID)
	}
	q += ` ORDER BY submitted_at DESC`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SubmissionRecord
	for rows.Next() {
		var rec SubmissionRecord
		var tier, sjson string
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.CourseID, &tier, &rec.RawScore,
			&rec.Total, &rec.Percent, &rec.Scaled, &sjson, &rec.DurationSec, &rec.SubmittedAt); err != nil {
			return nil, err
		}
		rec.Tier = ParseTier(tier)
		if err := json.Unmarshal([]byte(sjson), &rec.Sections); err != nil {
			rec.Sections = nil
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpsertProgressIfBetter is the monotonic ratchet. The comparison happens
// inside the database in a single conditional upsert keyed on
// (student_id, course_id, tier), so two concurrent submissions cannot
// interleave a read-then-write and let the lower score win.
func (s *SQLStore) UpsertProgressIfBetter(ctx context.Context, rec ProgressRecord) (ProgressRecord, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO progress
		(student_id,course_id,tier,category,best_percent,best_scaled,passed,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (student_id,course_id,tier) DO UPDATE SET
			category=EXCLUDED.category,
			best_percent=EXCLUDED.best_percent,
			best_scaled=EXCLUDED.best_scaled,
			passed=EXCLUDED.passed,
			updated_at=EXCLUDED.updated_at
		WHERE EXCLUDED.best_percent > progress.best_percent`,
		rec.StudentID, rec.CourseID, string(rec.Tier), string(rec.Category),
		rec.BestPercent, rec.BestScaled, boolToInt(rec.Passed), rec.UpdatedAt)
	if err != nil {
		return ProgressRecord{}, err
	}
	return s.GetProgress(ctx, rec.StudentID, rec.CourseID, rec.Tier)
}

func (s *SQLStore) GetProgress(ctx context.Context, studentID, courseID string, tier DifficultyTier) (ProgressRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT student_id,course_id,tier,category,best_percent,best_scaled,passed,updated_at
		FROM progress WHERE student_id=$1 AND course_id=$2 AND tier=$3`,
		studentID, courseID, string(tier))
	return scanProgress(row)
}

func (s *SQLStore) ListProgress(ctx context.Context, studentID, courseID string) ([]ProgressRecord, error) {
	q := `SELECT student_id,course_id,tier,category,best_percent,best_scaled,passed,updated_at
		FROM progress WHERE student_id=$1`
	args := []interface{}{studentID}
	if courseID != "" {
		q += ` AND course_id=$2`
		args = append(args, courseID)
	}
	q += ` ORDER BY course_id, tier`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProgressRecord
	for rows.Next() {
		rec, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetBaseline(ctx context.Context, studentID string) (DiagnosticBaseline, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT math_score,rw_score,target_score FROM baselines WHERE student_id=$1`, studentID)
	var b DiagnosticBaseline
	if err := row.Scan(&b.MathScore, &b.RWScore, &b.TargetScore); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DiagnosticBaseline{}, ErrProgressNotFound
		}
		return DiagnosticBaseline{}, err
	}
	return b, nil
}

func (s *SQLStore) PutBaseline(ctx context.Context, studentID string, b DiagnosticBaseline) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO baselines (student_id,math_score,rw_score,target_score)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (student_id) DO UPDATE SET
			math_score=EXCLUDED.math_score,
			rw_score=EXCLUDED.rw_score,
			target_score=EXCLUDED.target_score`,
		studentID, b.MathScore, b.RWScore, b.TargetScore)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProgress(row rowScanner) (ProgressRecord, error) {
	var rec ProgressRecord
	var tier, cat string
	var passed int
	if err := row.Scan(&rec.StudentID, &rec.CourseID, &tier, &cat,
		&rec.BestPercent, &rec.BestScaled, &passed, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProgressRecord{}, ErrProgressNotFound
		}
		return ProgressRecord{}, err
	}
	rec.Tier = ParseTier(tier)
	rec.Category = ParseCategory(cat)
	rec.Passed = passed != 0
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
