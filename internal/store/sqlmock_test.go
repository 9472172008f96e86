package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/amishk599/firstround/internal/model"
)

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for range schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	s, err := NewStore(db, discardLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, mock
}

func TestInitFailurePropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS candidates").WillReturnError(errors.New("disk I/O error"))

	if _, err := NewStore(db, discardLogger()); err == nil {
		t.Fatal("expected error when table creation fails")
	}
}

func TestCreateRecordRollsBackOnJobInsertFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO candidates").
		WithArgs("Jane Roe", "resume").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO job_descriptions").
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	_, _, err := s.CreateRecord(context.Background(), model.NewRecord{
		CandidateName: "Jane Roe",
		ResumeText:    "resume",
		JobTitle:      "Job Title",
		JobText:       "jd",
	})
	if err == nil {
		t.Fatal("expected error from failing job insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateQuestionsFailurePropagates(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE question_sets").
		WithArgs(`["1. A"]`, int64(7), int64(9)).
		WillReturnError(errors.New("readonly database"))

	err := s.UpdateQuestions(context.Background(), 7, 9, []string{"1. A"})
	if err == nil {
		t.Fatal("expected error from failing update")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateQuestionsEncodesNilAsEmptyArray(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE question_sets").
		WithArgs("[]", int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.UpdateQuestions(context.Background(), 1, 2, nil); err != nil {
		t.Fatalf("UpdateQuestions: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
