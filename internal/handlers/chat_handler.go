package handlers

import (
	"net/http"

	"github.com/moesamiii/production/internal/services"
	"github.com/moesamiii/production/internal/services/dto"
	"github.com/moesamiii/production/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	{
		messages.GET("", h.GetRecentMessages)
		messages.POST("", h.SendMessage)
	}
}

func (h *ChatHandler) GetRecentMessages(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 0)

	messages, err := h.chatService.GetRecent(h.GetDB(c), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	message, err := h.chatService.SendMessage(h.GetDB(c), &req)
	if err != nil {
		if apperrors.Is(err, services.ErrEmptyMessage) {
			h.HandleServiceError(c, apperrors.NewBadRequestError(err.Error()))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
