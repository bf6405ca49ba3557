package port

import (
	"context"

	"vision-diff/internal/domain/entity"
)

// Comparer ядро сравнения: два потока байтов и заявленный вид на входе, результат на выходе
type Comparer interface {
	Compare(ctx context.Context, kind entity.ComparisonKind, first, second []byte) (*entity.ComparisonResult, error)
}
