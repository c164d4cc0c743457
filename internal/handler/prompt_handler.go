package handler

import (
	"dualshot/internal/service"
	"dualshot/pkg/response"

	"github.com/gin-gonic/gin"
)

type PromptHandler struct {
	service *service.PromptService
}

func NewPromptHandler(s *service.PromptService) *PromptHandler {
	return &PromptHandler{service: s}
}

func (h *PromptHandler) Get(c *gin.Context) {
	prompt, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"prompt": prompt})
}

func (h *PromptHandler) Set(c *gin.Context) {
	var r struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	prompt, err := h.service.Set(c.Request.Context(), r.Prompt)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "每日提示已更新", gin.H{"prompt": prompt})
}
