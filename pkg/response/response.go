package response

import (
	"net/http"

	"dualshot/pkg/apperr"
	"dualshot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`             // 0表示成功，其他为HTTP状态码
	Message string      `json:"message"`          // 响应消息
	Reason  string      `json:"reason,omitempty"` // 错误分类，如 DUPLICATE_POST
	Data    interface{} `json:"data,omitempty"`   // 响应数据
	Error   string      `json:"error,omitempty"`  // 错误详情（仅在debug模式显示）
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Created 201响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应，HTTP状态码与 code 一致
func Error(c *gin.Context, status int, reason, message string) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Reason:  reason,
	})
}

// FromError 把业务错误转换为响应
func FromError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := apperr.HTTPStatus(code)

	if status >= http.StatusInternalServerError {
		logger.Error("请求处理失败",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("reason", code),
			zap.Error(err),
		)
	}
	_ = c.Error(err)

	resp := Response{
		Code:    status,
		Message: apperr.PublicMessage(err),
		Reason:  code,
	}
	if gin.Mode() == gin.DebugMode && status >= http.StatusInternalServerError {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, apperr.CodeBadRequest, message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, apperr.CodeUnauthorized, message)
}

// Forbidden 403错误
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, apperr.CodeForbidden, message)
}

// NotFound 404错误
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, apperr.CodeNotFound, message)
}

// TooManyRequests 429错误
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, apperr.CodeRateLimited, message)
}

// InternalError 500错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, apperr.CodeInternal, message)
}
