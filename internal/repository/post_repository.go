package repository

import (
	"context"
	"time"

	"dualshot/internal/model"

	"gorm.io/gorm"
)

// FeedRow 动态中的一条帖子，附带作者信息
type FeedRow struct {
	ID               uint      `json:"id"`
	UserID           uint      `json:"user_id"`
	PostDate         string    `json:"post_date"`
	FrontImageURL    string    `json:"front_image_url"`
	BackImageURL     string    `json:"back_image_url"`
	StitchedImageURL string    `json:"stitched_image_url"`
	Caption          string    `json:"caption"`
	CreatedAt        time.Time `json:"created_at"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"display_name"`
	AvatarURL        string    `json:"avatar_url"`
}

// PostRepository 帖子数据仓储
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建PostRepository实例
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create 写入帖子，同一账号同一天重复写入返回 ErrDuplicate
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return translate(r.db.WithContext(ctx).Create(post).Error)
}

// GetByID 根据ID获取帖子
func (r *PostRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// ExistsForDay 判断账号在某天是否已发帖
func (r *PostRepository) ExistsForDay(ctx context.Context, userID uint, day string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("user_id = ? AND post_date = ?", userID, day).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

// ListByUser 账号自己的帖子，新的在前
func (r *PostRepository) ListByUser(ctx context.Context, userID uint) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, translate(err)
}

// Feed viewerID 能看到的某一天的好友帖子
func (r *PostRepository) Feed(ctx context.Context, viewerID uint, day string) ([]FeedRow, error) {
	rows := make([]FeedRow, 0)
	err := r.db.WithContext(ctx).Table("posts AS p").
		Select("p.id, p.user_id, p.post_date, p.front_image_url, p.back_image_url, p.stitched_image_url, "+
			"p.caption, p.created_at, u.username, u.display_name, u.avatar_url").
		Joins("JOIN friendships f ON f.friend_id = p.user_id").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("f.user_id = ? AND f.status = ? AND p.post_date = ?", viewerID, model.FriendshipAccepted, day).
		Order("p.created_at DESC, p.id DESC").
		Scan(&rows).Error
	return rows, translate(err)
}
