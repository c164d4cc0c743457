package repository

import (
	"context"
	"time"

	"dualshot/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRequestRow 收到的好友申请
type FriendRequestRow struct {
	FriendshipID uint      `json:"friendship_id"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url"`
	RequestedAt  time.Time `json:"requested_at"`
}

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// Get 查询有向边 userID -> friendID
func (r *FriendshipRepository) Get(ctx context.Context, userID, friendID uint) (*model.Friendship, error) {
	var f model.Friendship
	err := r.db.WithContext(ctx).Where("user_id = ? AND friend_id = ?", userID, friendID).First(&f).Error
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// CreatePending 不存在时插入 pending 边，已存在返回 false
func (r *FriendshipRepository) CreatePending(ctx context.Context, userID, friendID uint) (bool, error) {
	f := model.Friendship{UserID: userID, FriendID: friendID, Status: model.FriendshipPending}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&f)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ResetToPending 把已拒绝的边重新置为 pending
func (r *FriendshipRepository) ResetToPending(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("id = ? AND status = ?", id, model.FriendshipDeclined).
		Update("status", model.FriendshipPending)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Accept 接受 requesterID -> targetID 的申请，并在同一事务中写入反向 accepted 边
func (r *FriendshipRepository) Accept(ctx context.Context, requesterID, targetID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Friendship{}).
			Where("user_id = ? AND friend_id = ? AND status = ?", requesterID, targetID, model.FriendshipPending).
			Update("status", model.FriendshipAccepted)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		reciprocal := model.Friendship{UserID: targetID, FriendID: requesterID, Status: model.FriendshipAccepted}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).Create(&reciprocal).Error
		return translate(err)
	})
}

// Decline 拒绝申请
func (r *FriendshipRepository) Decline(ctx context.Context, requesterID, targetID uint) error {
	res := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ? AND status = ?", requesterID, targetID, model.FriendshipPending).
		Update("status", model.FriendshipDeclined)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBoth 删除两个方向的边，不存在也视为成功
func (r *FriendshipRepository) DeleteBoth(ctx context.Context, a, b uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Delete(&model.Friendship{})
	return res.RowsAffected, translate(res.Error)
}

// ListFriends 我方 accepted 边指向的账号
func (r *FriendshipRepository) ListFriends(ctx context.Context, userID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Table("users AS u").
		Select("u.*").
		Joins("JOIN friendships f ON f.friend_id = u.id").
		Where("f.user_id = ? AND f.status = ?", userID, model.FriendshipAccepted).
		Order("u.username").
		Find(&users).Error
	return users, translate(err)
}

// ListPendingRequests 发给我的待处理申请
func (r *FriendshipRepository) ListPendingRequests(ctx context.Context, userID uint) ([]FriendRequestRow, error) {
	rows := make([]FriendRequestRow, 0)
	err := r.db.WithContext(ctx).Table("friendships AS f").
		Select("f.id AS friendship_id, u.id AS user_id, u.username, u.display_name, u.avatar_url, f.created_at AS requested_at").
		Joins("JOIN users u ON u.id = f.user_id").
		Where("f.friend_id = ? AND f.status = ?", userID, model.FriendshipPending).
		Order("f.created_at DESC").
		Scan(&rows).Error
	return rows, translate(err)
}

// ListViewerIDs 能在动态中看到 authorID 帖子的账号（存在 viewer -> author 的 accepted 边）
func (r *FriendshipRepository) ListViewerIDs(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("friend_id = ? AND status = ?", authorID, model.FriendshipAccepted).
		Pluck("user_id", &ids).Error
	return ids, translate(err)
}
