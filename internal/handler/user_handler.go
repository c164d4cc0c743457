package handler

import (
	"dualshot/internal/service"
	"dualshot/pkg/jwt"
	"dualshot/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Register 注册
func (h *UserHandler) Register(c *gin.Context) {
	type req struct {
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	user, token, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		Email:       r.Email,
		Phone:       r.Phone,
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Password:    r.Password,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, "注册成功", &response.AuthResponse{
		User:        response.FilterUserInfo(user),
		AccessToken: token,
	})
}

// Login 登录，email 字段也可以填用户名
func (h *UserHandler) Login(c *gin.Context) {
	type req struct {
		Email           string `json:"email"`
		UsernameOrEmail string `json:"usernameOrEmail"`
		Password        string `json:"password"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	identifier := r.Email
	if identifier == "" {
		identifier = r.UsernameOrEmail
	}
	user, token, err := h.service.Login(c.Request.Context(), identifier, r.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMessage(c, "登录成功", &response.AuthResponse{
		User:        response.FilterUserInfo(user),
		AccessToken: token,
	})
}

// GetProfile 获取自己的资料
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "获取用户资料成功", response.FilterUserInfo(user))
}

// UpdateProfile 修改显示名称和头像
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	type req struct {
		DisplayName *string `json:"display_name"`
		AvatarURL   *string `json:"avatar_url"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, "请求体格式错误")
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), jwt.GetUserID(c), service.ProfileUpdate{
		DisplayName: r.DisplayName,
		AvatarURL:   r.AvatarURL,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "资料已更新", response.FilterUserInfo(user))
}
