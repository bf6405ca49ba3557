package port

import (
	"image"
	"io"
)

// ScratchStorage выдаёт временную область, уникальную для запроса
type ScratchStorage interface {
	Acquire(prefix string) (ScratchArea, error)
}

// ScratchArea временная область одного запроса. Release обязателен на любом пути выхода.
type ScratchArea interface {
	// WriteImage сохраняет изображение под именем name и возвращает путь к нему
	WriteImage(name string, img image.Image) (string, error)

	// Open открывает ранее записанный файл по пути из WriteImage
	Open(path string) (io.ReadCloser, error)

	// Release удаляет всё содержимое области
	Release() error
}
