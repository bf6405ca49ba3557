package port

import (
	"image"

	"vision-diff/internal/domain/entity"
)

// ImageProcessor операции над растром, которым не нужен OpenCV
type ImageProcessor interface {
	// Decode разбирает байты изображения; начало результата в (0, 0)
	Decode(data []byte) (image.Image, error)
	// Crop вырезает рамку с отступом padding
	Crop(img image.Image, box entity.BoundingBox, padding int) (image.Image, error)
	// Resize масштабирует изображение до width x height
	Resize(img image.Image, width, height int) (image.Image, error)
	// EncodePNG кодирует изображение в PNG
	EncodePNG(img image.Image) ([]byte, error)
}
