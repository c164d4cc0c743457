package repository

import (
	"context"
	"time"

	"dualshot/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRow 帖子的互动列表项
type ReactionRow struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	ReactionType string    `json:"reaction_type"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Upsert 写入互动，同一账号对同一帖子的再次互动覆盖类型
func (r *ReactionRepository) Upsert(ctx context.Context, postID, userID uint, kind string) (*model.Reaction, error) {
	reaction := model.Reaction{PostID: postID, UserID: userID, ReactionType: kind}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "updated_at"}),
	}).Create(&reaction).Error
	if err != nil {
		return nil, translate(err)
	}

	var saved model.Reaction
	if err := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).First(&saved).Error; err != nil {
		return nil, translate(err)
	}
	return &saved, nil
}

// Delete 删除自己的互动
func (r *ReactionRepository) Delete(ctx context.Context, postID, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.Reaction{})
	return res.RowsAffected, translate(res.Error)
}

// ListByPost 帖子的全部互动，最近的在前
func (r *ReactionRepository) ListByPost(ctx context.Context, postID uint) ([]ReactionRow, error) {
	rows := make([]ReactionRow, 0)
	err := r.db.WithContext(ctx).Table("reactions AS r").
		Select("r.id, r.user_id, u.username, u.display_name, r.reaction_type, r.updated_at").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.post_id = ?", postID).
		Order("r.updated_at DESC, r.id DESC").
		Scan(&rows).Error
	return rows, translate(err)
}
