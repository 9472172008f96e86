package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/firstround/internal/model"
)

// Ensure SQLiteStore implements model.QuestionStore.
var _ model.QuestionStore = (*SQLiteStore)(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT,
		resume_text TEXT,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS job_descriptions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT,
		description TEXT,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS question_sets (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate_id INTEGER,
		job_id       INTEGER,
		questions    TEXT,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(candidate_id) REFERENCES candidates(id),
		FOREIGN KEY(job_id) REFERENCES job_descriptions(id)
	)`,
}

// SQLiteStore persists candidates, job descriptions and question sets.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// tables exist.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	s, err := NewStore(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an open database handle and ensures the tables exist.
func NewStore(db *sql.DB, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SQLiteStore{db: db, logger: logger}
	if err := s.Init(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Init creates the tables if they are absent. It is idempotent.
func (s *SQLiteStore) Init(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating tables: %w", err)
		}
	}
	return nil
}

// CreateRecord inserts a candidate and a job description and, when
// rec.Questions is non-nil, a question set linking them. It returns the new
// candidate and job ids.
func (s *SQLiteStore) CreateRecord(ctx context.Context, rec model.NewRecord) (int64, int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("creating record: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO candidates (name, resume_text) VALUES (?, ?)",
		rec.CandidateName, rec.ResumeText)
	if err != nil {
		return 0, 0, fmt.Errorf("inserting candidate %q: %w", rec.CandidateName, err)
	}
	candidateID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("reading candidate id: %w", err)
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO job_descriptions (title, description) VALUES (?, ?)",
		rec.JobTitle, rec.JobText)
	if err != nil {
		return 0, 0, fmt.Errorf("inserting job description %q: %w", rec.JobTitle, err)
	}
	jobID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("reading job description id: %w", err)
	}

	if rec.Questions != nil {
		encoded, err := encodeQuestions(rec.Questions)
		if err != nil {
			return 0, 0, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO question_sets (candidate_id, job_id, questions) VALUES (?, ?, ?)",
			candidateID, jobID, encoded); err != nil {
			return 0, 0, fmt.Errorf("inserting question set: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("creating record: commit: %w", err)
	}
	return candidateID, jobID, nil
}

// UpdateQuestions overwrites the questions of the set addressed by
// (candidateID, jobID). When no set matches the call succeeds without effect.
func (s *SQLiteStore) UpdateQuestions(ctx context.Context, candidateID, jobID int64, questions []string) error {
	encoded, err := encodeQuestions(questions)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE question_sets SET questions = ?, updated_at = CURRENT_TIMESTAMP WHERE candidate_id = ? AND job_id = ?",
		encoded, candidateID, jobID)
	if err != nil {
		return fmt.Errorf("updating questions for candidate %d job %d: %w", candidateID, jobID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		s.logger.Debug("no question set matched update", "candidate_id", candidateID, "job_id", jobID)
	}
	return nil
}

// QuestionSet returns the set addressed by (candidateID, jobID), or
// model.ErrNotFound.
func (s *SQLiteStore) QuestionSet(ctx context.Context, candidateID, jobID int64) (*model.QuestionSet, error) {
	var (
		qs      model.QuestionSet
		raw     sql.NullString
		updated dbTime
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, candidate_id, job_id, questions, updated_at FROM question_sets WHERE candidate_id = ? AND job_id = ? ORDER BY id LIMIT 1",
		candidateID, jobID).Scan(&qs.ID, &qs.CandidateID, &qs.JobID, &raw, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("question set for candidate %d job %d: %w", candidateID, jobID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading question set for candidate %d job %d: %w", candidateID, jobID, err)
	}

	qs.Questions, err = decodeQuestions(raw.String)
	if err != nil {
		return nil, err
	}
	qs.UpdatedAt = updated.Time
	return &qs, nil
}

// Candidate returns the candidate with the given id, or model.ErrNotFound.
func (s *SQLiteStore) Candidate(ctx context.Context, id int64) (*model.Candidate, error) {
	var (
		c       model.Candidate
		name    sql.NullString
		resume  sql.NullString
		created dbTime
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, resume_text, created_at FROM candidates WHERE id = ?", id).
		Scan(&c.ID, &name, &resume, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading candidate %d: %w", id, err)
	}
	c.Name, c.ResumeText, c.CreatedAt = name.String, resume.String, created.Time
	return &c, nil
}

// JobDescription returns the job description with the given id, or
// model.ErrNotFound.
func (s *SQLiteStore) JobDescription(ctx context.Context, id int64) (*model.JobDescription, error) {
	var (
		jd      model.JobDescription
		title   sql.NullString
		desc    sql.NullString
		created dbTime
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, created_at FROM job_descriptions WHERE id = ?", id).
		Scan(&jd.ID, &title, &desc, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job description %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading job description %d: %w", id, err)
	}
	jd.Title, jd.Description, jd.CreatedAt = title.String, desc.String, created.Time
	return &jd, nil
}

// ListQuestionSets returns up to limit question sets, most recently updated
// first. A non-positive limit returns all of them.
func (s *SQLiteStore) ListQuestionSets(ctx context.Context, limit int) ([]model.QuestionSetSummary, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT qs.candidate_id, qs.job_id, COALESCE(c.name, ''), COALESCE(j.title, ''), qs.questions, qs.updated_at
		FROM question_sets qs
		LEFT JOIN candidates c ON c.id = qs.candidate_id
		LEFT JOIN job_descriptions j ON j.id = qs.job_id
		ORDER BY qs.updated_at DESC, qs.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing question sets: %w", err)
	}
	defer rows.Close()

	var out []model.QuestionSetSummary
	for rows.Next() {
		var (
			sum     model.QuestionSetSummary
			raw     sql.NullString
			updated dbTime
		)
		if err := rows.Scan(&sum.CandidateID, &sum.JobID, &sum.CandidateName, &sum.JobTitle, &raw, &updated); err != nil {
			return nil, fmt.Errorf("scanning question set: %w", err)
		}
		questions, err := decodeQuestions(raw.String)
		if err != nil {
			return nil, err
		}
		sum.QuestionCount = len(questions)
		sum.UpdatedAt = updated.Time
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing question sets: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeQuestions serializes an ordered list as a JSON array. nil encodes as
// an empty array so reads always decode to a slice.
func encodeQuestions(questions []string) (string, error) {
	if questions == nil {
		questions = []string{}
	}
	b, err := json.Marshal(questions)
	if err != nil {
		return "", fmt.Errorf("encoding questions: %w", err)
	}
	return string(b), nil
}

func decodeQuestions(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	if questions == nil {
		questions = []string{}
	}
	return questions, nil
}

// dbTime scans SQLite timestamps, which the driver may hand back either as
// time.Time or as text depending on how the value was written.
type dbTime struct {
	Time time.Time
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}
