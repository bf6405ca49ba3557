package raster

import (
	"image"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// Processor реализует port.ImageProcessor поверх функций пакета.
type Processor struct{}

// NewProcessor создаёт обработчик растров
func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) Decode(data []byte) (image.Image, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (p *Processor) Crop(img image.Image, box entity.BoundingBox, padding int) (image.Image, error) {
	out, err := Crop(img, box, padding)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Processor) Resize(img image.Image, width, height int) (image.Image, error) {
	out, err := Resize(img, width, height)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Processor) EncodePNG(img image.Image) ([]byte, error) {
	return EncodePNG(img)
}

var _ port.ImageProcessor = (*Processor)(nil)
