package handler

import (
	"dualshot/internal/service"
	"dualshot/pkg/jwt"
	"dualshot/pkg/response"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友相关接口
type FriendHandler struct {
	service *service.FriendService
}

// NewFriendHandler 创建FriendHandler实例
func NewFriendHandler(s *service.FriendService) *FriendHandler {
	return &FriendHandler{service: s}
}

// List 好友列表
func (h *FriendHandler) List(c *gin.Context) {
	users, err := h.service.ListFriends(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.PublicUsers(users))
}

// Requests 收到的好友申请
func (h *FriendHandler) Requests(c *gin.Context) {
	rows, err := h.service.ListRequests(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, rows)
}

// Search 搜索账号
func (h *FriendHandler) Search(c *gin.Context) {
	var r struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	users, err := h.service.Search(c.Request.Context(), jwt.GetUserID(c), r.Query)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.PublicUsers(users))
}

// Request 发送好友申请
func (h *FriendHandler) Request(c *gin.Context) {
	var r struct {
		FriendID uint `json:"friend_id"`
	}
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	if err := h.service.Request(c.Request.Context(), jwt.GetUserID(c), r.FriendID); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "好友申请已发送", nil)
}

// Respond 接受或拒绝好友申请
func (h *FriendHandler) Respond(c *gin.Context) {
	var r struct {
		FriendID uint   `json:"friend_id"`
		Status   string `json:"status"`
	}
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	if err := h.service.Respond(c.Request.Context(), jwt.GetUserID(c), r.FriendID, r.Status); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "好友申请已处理", gin.H{"status": r.Status})
}

// Remove 删除好友
func (h *FriendHandler) Remove(c *gin.Context) {
	friendID, ok := parseIDParam(c, "friend_id")
	if !ok {
		response.BadRequest(c, "invalid friend_id")
		return
	}
	if err := h.service.Unfriend(c.Request.Context(), jwt.GetUserID(c), friendID); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "好友已删除", nil)
}
