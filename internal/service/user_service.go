package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"dualshot/internal/model"
	"dualshot/internal/repository"
	"dualshot/pkg/apperr"
	"dualshot/pkg/jwt"
	"dualshot/pkg/password"
	"dualshot/pkg/sanitize"
)

const (
	maxUsernameLen    = 64
	maxDisplayNameLen = 64
	maxAvatarURLLen   = 255
)

// RegisterInput 注册参数
type RegisterInput struct {
	Email       string
	Phone       string
	Username    string
	DisplayName string
	Password    string
}

// ProfileUpdate 资料修改，nil 字段保持不变
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
}

type UserService struct {
	repo       *repository.UserRepository
	jwtService *jwt.JWTService
}

func NewUserService(repo *repository.UserRepository, jwtService *jwt.JWTService) *UserService {
	return &UserService{repo: repo, jwtService: jwtService}
}

// Register 注册并签发 token
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	displayName := sanitize.Text(in.DisplayName, maxDisplayNameLen)
	if email == "" || username == "" || displayName == "" || in.Password == "" {
		return nil, "", apperr.BadRequest("Missing required fields")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", apperr.BadRequest("Invalid email address")
	}
	if len([]rune(username)) > maxUsernameLen || strings.ContainsAny(username, " \t\r\n@") {
		return nil, "", apperr.BadRequest("Invalid username")
	}

	// 密码哈希
	hash, err := password.Hash(in.Password)
	if errors.Is(err, password.ErrTooLong) {
		return nil, "", apperr.BadRequest("Password is too long")
	}
	if err != nil {
		return nil, "", apperr.Wrap(err, apperr.CodeInternal, "hash password failed")
	}
	user := &model.User{
		Email:        email,
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = &phone
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperr.Conflict("Email or username already exists")
		}
		return nil, "", apperr.Storage(err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login 使用邮箱或用户名登录
func (s *UserService) Login(ctx context.Context, identifier, plainPassword string) (*model.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || plainPassword == "" {
		return nil, "", apperr.BadRequest("Email and password required")
	}
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}
	u, err := s.repo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.Unauthorized("Invalid credentials")
		}
		return nil, "", apperr.Storage(err)
	}
	if !password.Verify(plainPassword, u.PasswordHash) {
		return nil, "", apperr.Unauthorized("Invalid credentials")
	}
	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetProfile 获取账号资料
func (s *UserService) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage(err)
	}
	return u, nil
}

// UpdateProfile 只修改传入的字段
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*model.User, error) {
	updates := map[string]interface{}{}
	if in.DisplayName != nil {
		name := sanitize.Text(*in.DisplayName, maxDisplayNameLen)
		if name == "" {
			return nil, apperr.BadRequest("display_name cannot be empty")
		}
		updates["display_name"] = name
	}
	if in.AvatarURL != nil {
		avatar := strings.TrimSpace(*in.AvatarURL)
		if len(avatar) > maxAvatarURLLen {
			return nil, apperr.BadRequest("avatar_url is too long")
		}
		updates["avatar_url"] = avatar
	}

	u, err := s.repo.UpdateProfile(ctx, id, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage(err)
	}
	return u, nil
}

func (s *UserService) issueToken(u *model.User) (string, error) {
	token, err := s.jwtService.GenerateToken(u.ID, map[string]interface{}{
		"username": u.Username,
		"email":    u.Email,
	})
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeInternal, "issue token failed")
	}
	return token, nil
}
