package scratch

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"io/fs"
	"path"
	"strconv"
	"sync"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// MemoryStorage держит временные файлы в памяти. Подходит для тестов.
type MemoryStorage struct {
	mu   sync.Mutex
	seq  int
	live int
}

// NewMemoryStorage создаёт in-memory хранилище
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Acquire выдаёт новую область
func (s *MemoryStorage) Acquire(prefix string) (port.ScratchArea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.live++
	return &memoryArea{
		owner: s,
		root:  prefix + "-" + strconv.Itoa(s.seq),
		files: make(map[string][]byte),
	}, nil
}

// Live возвращает число неосвобождённых областей
func (s *MemoryStorage) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

type memoryArea struct {
	mu       sync.Mutex
	owner    *MemoryStorage
	root     string
	files    map[string][]byte
	released bool
}

func (a *memoryArea) WriteImage(name string, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", entity.NewError(entity.KindIO, "scratch write", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return "", entity.NewError(entity.KindIO, "scratch write", ErrReleased)
	}
	key := path.Join(a.root, path.Base(name))
	a.files[key] = buf.Bytes()
	return key, nil
}

func (a *memoryArea) Open(name string) (io.ReadCloser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return nil, entity.NewError(entity.KindIO, "scratch open", ErrReleased)
	}
	data, ok := a.files[name]
	if !ok {
		return nil, entity.NewError(entity.KindIO, "scratch open", fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (a *memoryArea) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return nil
	}
	a.released = true
	a.files = nil

	a.owner.mu.Lock()
	a.owner.live--
	a.owner.mu.Unlock()
	return nil
}

var _ port.ScratchStorage = (*MemoryStorage)(nil)
