// Package scratch реализует временные области для промежуточных файлов запроса.
package scratch

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// ErrReleased область уже освобождена
var ErrReleased = errors.New("scratch area released")

// DirStorage выдаёт уникальные временные каталоги внутри BaseDir.
type DirStorage struct {
	BaseDir string // пустая строка — системный временный каталог
}

// NewDirStorage создаёт хранилище во временном каталоге baseDir
func NewDirStorage(baseDir string) *DirStorage {
	return &DirStorage{BaseDir: baseDir}
}

// Acquire создаёт каталог, уникальный для запроса.
func (s *DirStorage) Acquire(prefix string) (port.ScratchArea, error) {
	if s.BaseDir != "" {
		if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
			return nil, entity.NewError(entity.KindIO, "scratch acquire", err)
		}
	}
	dir, err := os.MkdirTemp(s.BaseDir, prefix+"-*")
	if err != nil {
		return nil, entity.NewError(entity.KindIO, "scratch acquire", err)
	}
	return &dirArea{dir: dir}, nil
}

type dirArea struct {
	mu       sync.Mutex
	dir      string
	released bool
}

func (a *dirArea) path(name string) string {
	return filepath.Join(a.dir, filepath.Base(name))
}

func (a *dirArea) WriteImage(name string, img image.Image) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return "", entity.NewError(entity.KindIO, "scratch write", ErrReleased)
	}

	p := a.path(name)
	f, err := os.Create(p)
	if err != nil {
		return "", entity.NewError(entity.KindIO, "scratch write", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", entity.NewError(entity.KindIO, "scratch write", fmt.Errorf("encode %s: %w", name, err))
	}
	if err := f.Close(); err != nil {
		return "", entity.NewError(entity.KindIO, "scratch write", err)
	}
	return p, nil
}

func (a *dirArea) Open(name string) (io.ReadCloser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return nil, entity.NewError(entity.KindIO, "scratch open", ErrReleased)
	}
	f, err := os.Open(a.path(name))
	if err != nil {
		return nil, entity.NewError(entity.KindIO, "scratch open", err)
	}
	return f, nil
}

// Release удаляет каталог. Повторный вызов ничего не делает.
func (a *dirArea) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return nil
	}
	a.released = true
	if err := os.RemoveAll(a.dir); err != nil {
		return entity.NewError(entity.KindIO, "scratch release", err)
	}
	return nil
}

var _ port.ScratchStorage = (*DirStorage)(nil)
