package port

import (
	"context"
	"image"

	"vision-diff/internal/domain/entity"
)

// RegionLocator ищет рамки значимого содержимого на изображении
type RegionLocator interface {
	// Locate возвращает рамки содержимого; пустой список означает, что содержимого нет
	Locate(img image.Image) ([]entity.BoundingBox, error)
}

// FeatureAligner выравнивает второе изображение в системе координат первого
type FeatureAligner interface {
	// Align ищет ключевые точки, сопоставляет их и строит гомографию cmp -> ref
	Align(ctx context.Context, ref, cmp image.Image, strategy entity.DescriptorStrategy) (*entity.Alignment, error)
}

// DiffRenderer считает и рисует попиксельную разницу двух выровненных изображений
type DiffRenderer interface {
	// Diff сравнивает ref и aligned одного размера в заданном режиме
	Diff(ref, aligned image.Image, mode entity.DiffMode) (*entity.DiffOutput, error)
}
