package store

import (
	"context"
	"sync/atomic"

	"github.com/amishk599/firstround/internal/model"
)

// Ensure NopStore implements model.QuestionStore.
var _ model.QuestionStore = (*NopStore)(nil)

// NopStore is a no-op store used in dry-run mode. It hands out fresh ids so a
// session can regenerate, but nothing is persisted.
type NopStore struct {
	nextID atomic.Int64
}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) CreateRecord(_ context.Context, _ model.NewRecord) (int64, int64, error) {
	id := s.nextID.Add(1)
	return id, id, nil
}

func (s *NopStore) UpdateQuestions(_ context.Context, _, _ int64, _ []string) error { return nil }
