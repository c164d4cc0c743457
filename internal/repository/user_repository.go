package repository

import (
	"context"
	"strings"

	"dualshot/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	orm *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{orm: db}
}

// Create 新建账号，邮箱/用户名/手机号冲突返回 ErrDuplicate
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.orm.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.orm.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	var u model.User
	if err := r.orm.WithContext(ctx).Where("username = ? OR email = ?", identifier, identifier).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Exists 判断账号是否存在
func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.orm.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

// UpdateProfile 只更新传入的列
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*model.User, error) {
	if len(updates) > 0 {
		if err := r.orm.WithContext(ctx).Model(&model.User{ID: id}).Updates(updates).Error; err != nil {
			return nil, translate(err)
		}
	}
	return r.GetByID(ctx, id)
}

// likeEscaper 把 LIKE 通配符当作普通字符
// 转义符用 '!'，MySQL 默认模式下 '\' 在字符串字面量里本身就是转义符
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search 按用户名或显示名称做不区分大小写的子串匹配，排除自己
func (r *UserRepository) Search(ctx context.Context, excludeID uint, query string, limit int) ([]model.User, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	users := make([]model.User, 0)
	err := r.orm.WithContext(ctx).
		Where(`id <> ? AND (LOWER(username) LIKE ? ESCAPE '!' OR LOWER(display_name) LIKE ? ESCAPE '!')`, excludeID, pattern, pattern).
		Order("username").
		Limit(limit).
		Find(&users).Error
	return users, translate(err)
}
