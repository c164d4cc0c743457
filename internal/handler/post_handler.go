package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"dualshot/internal/service"
	"dualshot/pkg/jwt"
	"dualshot/pkg/response"

	"github.com/gin-gonic/gin"
)

// PostHandler 发帖与动态接口
type PostHandler struct {
	service     *service.PostService
	maxFileSize int64
}

// NewPostHandler 创建PostHandler实例，maxFileSize 为单张图片上限
func NewPostHandler(s *service.PostService, maxFileSize int64) *PostHandler {
	return &PostHandler{service: s, maxFileSize: maxFileSize}
}

// Create 上传前后两张图片发帖
func (h *PostHandler) Create(c *gin.Context) {
	// 两张图片加上表单字段的余量
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxFileSize+1<<20)

	front, err := c.FormFile("front_image")
	if err != nil {
		response.BadRequest(c, "Both front and back images required")
		return
	}
	back, err := c.FormFile("back_image")
	if err != nil {
		response.BadRequest(c, "Both front and back images required")
		return
	}
	if front.Size > h.maxFileSize || back.Size > h.maxFileSize {
		response.BadRequest(c, fmt.Sprintf("图片不能超过 %d MB", h.maxFileSize>>20))
		return
	}

	frontFile, err := front.Open()
	if err != nil {
		response.BadRequest(c, "无法读取 front_image")
		return
	}
	defer frontFile.Close()
	backFile, err := back.Open()
	if err != nil {
		response.BadRequest(c, "无法读取 back_image")
		return
	}
	defer backFile.Close()

	post, err := h.service.Create(c.Request.Context(), service.CreatePostInput{
		OwnerID: jwt.GetUserID(c),
		Front:   imagePart(front, frontFile),
		Back:    imagePart(back, backFile),
		Caption: c.PostForm("caption"),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "发布成功", response.FilterPostInfo(post))
}

// Mine 自己的帖子
func (h *PostHandler) Mine(c *gin.Context) {
	posts, err := h.service.ListMine(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterPosts(posts))
}

// Feed 今天的好友动态
func (h *PostHandler) Feed(c *gin.Context) {
	rows, err := h.service.Feed(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterFeed(rows))
}

func imagePart(fh *multipart.FileHeader, f multipart.File) service.ImagePart {
	return service.ImagePart{Filename: fh.Filename, Reader: f}
}
