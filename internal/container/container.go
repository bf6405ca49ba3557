package container

import (
	app "vision-diff/internal/application"
	"vision-diff/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	ComparisonService *app.ComparisonService
	SessionService    *app.SessionService
}

func New(userRepo port.UserRepository, comparisons port.ComparisonRepository, cfg app.ComparisonConfig, engines app.Engines) *Container {
	userService := app.NewUserService(userRepo)
	comparisonService := app.NewComparisonService(cfg, engines)
	sessionService := app.NewSessionService(userService, comparisonService, comparisons)

	return &Container{
		UserService:       userService,
		ComparisonService: comparisonService,
		SessionService:    sessionService,
	}
}
