package port

import (
	"context"

	"vision-diff/internal/domain/entity"
)

// ComparisonRepository хранилище выполненных сравнений
type ComparisonRepository interface {
	// Save сохраняет запись и присваивает ей ID
	Save(ctx context.Context, c *entity.Comparison) error

	// Get возвращает запись по ID; для неизвестного ID ошибка оборачивает entity.ErrComparisonNotFound
	Get(ctx context.Context, id int64) (*entity.Comparison, error)

	// ListByOwner возвращает записи пользователя, новые первыми
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*entity.Comparison, error)
}
