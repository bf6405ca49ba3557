package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// MemoryComparisonRepository in-memory хранилище сравнений
type MemoryComparisonRepository struct {
	mu          sync.RWMutex
	nextID      int64
	comparisons map[int64]*entity.Comparison
}

// NewMemoryComparisonRepository создаёт пустое хранилище сравнений
func NewMemoryComparisonRepository() *MemoryComparisonRepository {
	return &MemoryComparisonRepository{
		comparisons: make(map[int64]*entity.Comparison),
	}
}

// Save сохраняет запись и присваивает ей ID
func (r *MemoryComparisonRepository) Save(ctx context.Context, c *entity.Comparison) error {
	if c == nil {
		return errors.New("nil comparison")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	}
	r.comparisons[c.ID] = c
	return nil
}

// Get возвращает запись по ID
func (r *MemoryComparisonRepository) Get(ctx context.Context, id int64) (*entity.Comparison, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comparisons[id]
	if !ok {
		return nil, fmt.Errorf("%w: #%d", entity.ErrComparisonNotFound, id)
	}
	return c, nil
}

// ListByOwner возвращает записи пользователя, новые первыми. limit <= 0 — без ограничения.
func (r *MemoryComparisonRepository) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*entity.Comparison, error) {
	r.mu.RLock()
	out := make([]*entity.Comparison, 0)
	for _, c := range r.comparisons {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ port.ComparisonRepository = (*MemoryComparisonRepository)(nil)
