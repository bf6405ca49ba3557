package app

import (
	"context"
	"errors"
	"fmt"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// ErrInvalidTransition переход диалога недопустим из текущего состояния
var ErrInvalidTransition = errors.New("invalid dialog transition")

// UserService ведёт состояние диалога пользователя.
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// Move переводит пользователя в state, если переход допустим.
func (s *UserService) Move(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !user.CanMoveTo(state) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, user.State, state)
	}

	if err := s.repo.UpdateState(ctx, user.ID, state); err != nil {
		return nil, err
	}
	user.SetState(state)
	return user, nil
}

// BeginComparison переводит пользователя в ожидание эталонного файла.
func (s *UserService) BeginComparison(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.Move(ctx, userID, chatID, entity.StateAwaitingFirstFile)
}

// Reset возвращает пользователя в главное меню.
func (s *UserService) Reset(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.Move(ctx, userID, chatID, entity.StateMainMenu)
}
