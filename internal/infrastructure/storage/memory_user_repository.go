package storage

import (
	"context"
	"errors"
	"sync"

	"vision-diff/internal/domain/entity"
	"vision-diff/internal/domain/port"
)

// ErrUserNotFound пользователь ещё не обращался к боту
var ErrUserNotFound = errors.New("user not found")

// MemoryUserRepository хранит пользователей в памяти процесса.
// Наружу отдаются копии: изменить состояние можно только через Save или UpdateState.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]entity.User)}
}

// Get возвращает копию пользователя. Новый пользователь заводится в главном меню,
// у известного обновляется чат, если он написал из другого.
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		user = *entity.NewUser(userID, chatID)
	}
	if chatID != 0 {
		user.ChatID = chatID
	}
	r.users[userID] = user
	return &user, nil
}

func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	r.mu.Lock()
	r.users[user.ID] = *user
	r.mu.Unlock()
	return nil
}

// UpdateState меняет состояние уже известного пользователя.
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.SetState(state)
	r.users[userID] = user
	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
