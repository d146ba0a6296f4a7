package dto

// ── 聊天助手 DTO ──

// ChatRequest 聊天请求
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse 聊天响应
// Source: huggingface | knowledge_base | fallback
type ChatResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
	Source   string `json:"source"`
}

// ── 天气代理 DTO ──

// WeatherRequest 天气查询请求
type WeatherRequest struct {
	City string `json:"city" binding:"required"`
}

// [自证通过] internal/dto/chat.go
