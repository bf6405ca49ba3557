package port

import (
	"context"

	"vision-diff/internal/domain/entity"
)

// UserRepository хранит состояние диалога каждого пользователя
type UserRepository interface {
	// Get возвращает пользователя, при первом обращении создаёт его в главном меню
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)
	// Save сохраняет пользователя целиком
	Save(ctx context.Context, user *entity.User) error
	// UpdateState меняет только состояние уже известного пользователя
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
