package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// 错误码
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeDuplicatePost     = "DUPLICATE_POST"
	CodeCompositionFailed = "COMPOSITION_FAILED"
	CodeStorage           = "STORAGE_ERROR"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
)

var httpStatus = map[string]int{
	CodeBadRequest:        http.StatusBadRequest,
	CodeUnauthorized:      http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeNotFound:          http.StatusNotFound,
	CodeConflict:          http.StatusConflict,
	CodeDuplicatePost:     http.StatusConflict,
	CodeCompositionFailed: http.StatusUnprocessableEntity,
	CodeStorage:           http.StatusInternalServerError,
	CodeRateLimited:       http.StatusTooManyRequests,
	CodeInternal:          http.StatusInternalServerError,
}

// AppError 业务错误，Message 可直接返回给客户端，Err 只用于日志
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使 errors.Is(err, apperr.ErrDuplicatePost) 成立
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// 用于 errors.Is 判断的哨兵，Message 为空表示只比较错误码
var (
	ErrBadRequest        = &AppError{Code: CodeBadRequest}
	ErrUnauthorized      = &AppError{Code: CodeUnauthorized}
	ErrForbidden         = &AppError{Code: CodeForbidden}
	ErrNotFound          = &AppError{Code: CodeNotFound}
	ErrConflict          = &AppError{Code: CodeConflict}
	ErrDuplicatePost     = &AppError{Code: CodeDuplicatePost}
	ErrCompositionFailed = &AppError{Code: CodeCompositionFailed}
	ErrStorage           = &AppError{Code: CodeStorage}
)

func BadRequest(message string) *AppError   { return New(CodeBadRequest, message) }
func Unauthorized(message string) *AppError { return New(CodeUnauthorized, message) }
func Forbidden(message string) *AppError    { return New(CodeForbidden, message) }
func NotFound(message string) *AppError     { return New(CodeNotFound, message) }
func Conflict(message string) *AppError     { return New(CodeConflict, message) }

// Storage 包装底层存储错误，客户端只会看到通用提示
func Storage(err error) *AppError {
	return Wrap(err, CodeStorage, "storage error")
}

// CodeOf 取出错误码，非 AppError 视为内部错误
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// HTTPStatus 错误码对应的HTTP状态码
func HTTPStatus(code string) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// PublicMessage 返回可以给客户端看的信息
func PublicMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		switch {
		case ae.Code == CodeStorage || ae.Code == CodeInternal:
			return "internal server error"
		case ae.Message != "":
			return ae.Message
		}
	}
	return "internal server error"
}
