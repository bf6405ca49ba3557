// Package document растеризует страницы PDF и собирает подсвеченные страницы обратно в PDF.
package document

import (
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

const (
	// DefaultMagnification увеличение страницы при растеризации
	DefaultMagnification = 3.0
	pointsPerInch        = 72.0
)

// Rasterizer открывает документы через MuPDF.
type Rasterizer struct {
	Magnification float64
}

// NewRasterizer создаёт растеризатор с заданным увеличением (<= 0 — по умолчанию).
func NewRasterizer(magnification float64) *Rasterizer {
	if magnification <= 0 {
		magnification = DefaultMagnification
	}
	return &Rasterizer{Magnification: magnification}
}

// Open разбирает документ из байтов.
func (r *Rasterizer) Open(data []byte) (port.Document, error) {
	if len(data) == 0 {
		return nil, entity.NewError(entity.KindInput, "open document", entity.ErrEmptyInput)
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, entity.NewError(entity.KindDecode, "open document", err)
	}
	return &fitzDocument{doc: doc, dpi: r.Magnification * pointsPerInch}, nil
}

type fitzDocument struct {
	mu  sync.Mutex
	doc *fitz.Document
	dpi float64
}

func (d *fitzDocument) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.NumPage()
}

// RenderPage растеризует страницу index в RGBA.
func (d *fitzDocument) RenderPage(index int) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= d.doc.NumPage() {
		return nil, entity.NewError(entity.KindInput, "render page", fmt.Errorf("page %d out of range", index))
	}
	img, err := d.doc.ImageDPI(index, d.dpi)
	if err != nil {
		return nil, entity.NewError(entity.KindDecode, "render page", err)
	}
	if img.Bounds().Empty() {
		return nil, entity.NewError(entity.KindDecode, "render page", fmt.Errorf("page %d rendered empty", index))
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}

var _ port.DocumentRasterizer = (*Rasterizer)(nil)
