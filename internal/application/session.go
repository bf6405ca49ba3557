package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

var (
	// ErrKindMismatch второй файл другого вида, чем первый
	ErrKindMismatch = errors.New("files must be of the same kind")
	// ErrBusy сравнение для пользователя уже выполняется
	ErrBusy = errors.New("comparison already in progress")
	// ErrNoComparisons у пользователя ещё нет сравнений
	ErrNoComparisons = errors.New("no comparisons yet")
)

// IncomingFile файл, присланный пользователем.
type IncomingFile struct {
	Name string
	Kind entity.ComparisonKind
	Data []byte
}

// SessionOutcome итог приёма файла: либо ждём второй, либо сравнение готово.
type SessionOutcome struct {
	User       *entity.User
	Comparison *entity.Comparison // nil, пока ждём второй файл
}

// SessionService ведёт диалог из двух файлов и сохраняет результат сравнения.
type SessionService struct {
	users       *UserService
	comparer    port.Comparer
	comparisons port.ComparisonRepository
	pending     map[int64]IncomingFile
	mu          sync.RWMutex
	now         func() time.Time
}

// NewSessionService создаёт сервис, который управляет сравнением двух файлов.
func NewSessionService(users *UserService, comparer port.Comparer, comparisons port.ComparisonRepository) *SessionService {
	return &SessionService{
		users:       users,
		comparer:    comparer,
		comparisons: comparisons,
		pending:     make(map[int64]IncomingFile),
		now:         time.Now,
	}
}

// Begin начинает новое сравнение и забывает присланный ранее файл.
func (s *SessionService) Begin(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.dropPending(userID)
	return s.users.BeginComparison(ctx, userID, chatID)
}

// Cancel отменяет текущее сравнение.
func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	s.dropPending(userID)
	return s.users.Reset(ctx, userID, chatID)
}

// AcceptFile принимает очередной файл. Первый файл запоминается, второй запускает сравнение.
func (s *SessionService) AcceptFile(ctx context.Context, userID, chatID int64, file IncomingFile) (*SessionOutcome, error) {
	if !file.Kind.Valid() {
		return nil, entity.NewError(entity.KindInput, "accept file", fmt.Errorf("unsupported kind %q", file.Kind))
	}
	if len(file.Data) == 0 {
		return nil, entity.NewError(entity.KindInput, "accept file", entity.ErrEmptyInput)
	}

	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	switch user.State {
	case entity.StateProcessing:
		return nil, ErrBusy
	case entity.StateAwaitingSecondFile:
		s.mu.RLock()
		first, ok := s.pending[userID]
		s.mu.RUnlock()
		if ok {
			return s.compare(ctx, userID, chatID, first, file)
		}
	}

	// Эталон: сохраняем в памяти, чтобы сравнить со следующим файлом.
	s.mu.Lock()
	s.pending[userID] = file
	s.mu.Unlock()
	user, err = s.users.Move(ctx, userID, chatID, entity.StateAwaitingSecondFile)
	if err != nil {
		return nil, err
	}
	return &SessionOutcome{User: user}, nil
}

func (s *SessionService) compare(ctx context.Context, userID, chatID int64, first, second IncomingFile) (*SessionOutcome, error) {
	if first.Kind != second.Kind {
		return nil, fmt.Errorf("%w: %s vs %s", ErrKindMismatch, first.Kind, second.Kind)
	}
	if s.comparer == nil {
		return nil, errors.New("comparer is not configured")
	}

	if _, err := s.users.Move(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}
	s.dropPending(userID)

	result, err := s.comparer.Compare(ctx, first.Kind, first.Data, second.Data)
	user, stateErr := s.users.Reset(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if stateErr != nil {
		return nil, stateErr
	}

	record := &entity.Comparison{
		OwnerID:          userID,
		Kind:             first.Kind,
		File1:            storedFile(first),
		File2:            storedFile(second),
		Artifact:         result.Artifact,
		DifferencesFound: result.DifferencesFound,
		Pages:            result.Pages,
		CreatedAt:        s.now(),
	}
	if s.comparisons != nil {
		if err := s.comparisons.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("save comparison: %w", err)
		}
	}
	return &SessionOutcome{User: user, Comparison: record}, nil
}

// History возвращает последние сравнения пользователя.
func (s *SessionService) History(ctx context.Context, userID int64, limit int) ([]*entity.Comparison, error) {
	if s.comparisons == nil {
		return nil, nil
	}
	return s.comparisons.ListByOwner(ctx, userID, limit)
}

// Last возвращает самое свежее сравнение пользователя.
func (s *SessionService) Last(ctx context.Context, userID int64) (*entity.Comparison, error) {
	list, err := s.History(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoComparisons
	}
	return list[0], nil
}

// Find возвращает сравнение пользователя по ID. Чужие записи не выдаются.
func (s *SessionService) Find(ctx context.Context, userID, id int64) (*entity.Comparison, error) {
	if s.comparisons == nil {
		return nil, entity.ErrComparisonNotFound
	}
	rec, err := s.comparisons.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.OwnerID != userID {
		return nil, fmt.Errorf("%w: #%d", entity.ErrComparisonNotFound, id)
	}
	return rec, nil
}

func (s *SessionService) dropPending(userID int64) {
	s.mu.Lock()
	delete(s.pending, userID)
	s.mu.Unlock()
}
