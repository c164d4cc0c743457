package model

import "time"

// 好友关系状态
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipDeclined = "declined"
)

// Friendship 有向好友边 UserID -> FriendID
// 同一有序对只允许一条记录

type Friendship struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_friend_pair;comment:发起方ID"`
	FriendID  uint      `gorm:"not null;uniqueIndex:idx_friend_pair;index;comment:对方ID"`
	Status    string    `gorm:"type:varchar(16);not null;default:'pending';index;comment:关系状态"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (Friendship) TableName() string { return "friendships" }
