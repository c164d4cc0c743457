package handler

import (
	"dualshot/internal/service"
	"dualshot/pkg/jwt"
	"dualshot/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	service *service.ReactionService
}

func NewReactionHandler(s *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: s}
}

// React 互动
func (h *ReactionHandler) React(c *gin.Context) {
	var r struct {
		PostID       uint   `json:"post_id"`
		ReactionType string `json:"reaction_type"`
	}
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	reaction, err := h.service.React(c.Request.Context(), jwt.GetUserID(c), r.PostID, r.ReactionType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "互动成功", gin.H{
		"post_id":       reaction.PostID,
		"reaction_type": reaction.ReactionType,
	})
}

// Unreact 取消互动
func (h *ReactionHandler) Unreact(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		response.BadRequest(c, "invalid post_id")
		return
	}
	if err := h.service.Unreact(c.Request.Context(), jwt.GetUserID(c), postID); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已取消互动", nil)
}

// List 帖子的互动列表
func (h *ReactionHandler) List(c *gin.Context) {
	postID, ok := parseIDParam(c, "post_id")
	if !ok {
		response.BadRequest(c, "invalid post_id")
		return
	}
	rows, err := h.service.ListForPost(c.Request.Context(), jwt.GetUserID(c), postID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, rows)
}

// Report 举报
func (h *ReactionHandler) Report(c *gin.Context) {
	var r struct {
		PostID uint   `json:"post_id"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	report, err := h.service.Report(c.Request.Context(), jwt.GetUserID(c), r.PostID, r.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "举报已提交", gin.H{"id": report.ID})
}
