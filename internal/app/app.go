package app

import (
	"context"
	"net/http"

	"slot_engine/internal/config"

	"go.uber.org/zap"
)

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

func (s *App) Run() error {
	s.initServiceProvider()

	logger := s.ServiceProvider.Logger()
	defer logger.Sync()

	err := config.Load(".env")
	if err != nil {
		logger.Warn("failed to load .env file", zap.Error(err))
	}

	ctx := context.Background()
	r := s.ServiceProvider.Router(ctx)

	logger.Info("starting server", zap.String("addr", s.ServiceProvider.HTTPCfg().Address()))
	err = http.ListenAndServe(s.ServiceProvider.HTTPCfg().Address(), r)
	if err != nil {
		return err
	}
	return err
}
