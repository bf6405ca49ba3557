package port

import (
	"image"

	"vision-diff/internal/domain/entity"
)

// Document открытый многостраничный документ
type Document interface {
	// PageCount возвращает число страниц
	PageCount() int

	// RenderPage растеризует страницу с фиксированным увеличением
	RenderPage(index int) (image.Image, error)

	// Close освобождает ресурсы документа
	Close() error
}

// DocumentRasterizer открывает документ из байтов
type DocumentRasterizer interface {
	Open(data []byte) (Document, error)
}

// DocumentAssembler собирает страницы-изображения в один документ
type DocumentAssembler interface {
	// Assemble собирает файлы страниц из area по порядку и возвращает байты документа
	Assemble(area ScratchArea, pages []AssemblyPage) (*entity.Artifact, error)
}

// AssemblyPage страница для сборки: путь в ScratchArea и размер в пикселях
type AssemblyPage struct {
	Path   string
	Width  int
	Height int
}
