package model

import "time"

// DefaultReactionType 未指定类型时的默认互动
const DefaultReactionType = "like"

// Reaction 对帖子的互动，每人每帖一条，后写覆盖
type Reaction struct {
	ID           uint      `gorm:"primaryKey"`
	PostID       uint      `gorm:"not null;uniqueIndex:idx_reaction_post_user;comment:帖子ID"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_reaction_post_user;comment:用户ID"`
	ReactionType string    `gorm:"type:varchar(32);not null;default:'like';comment:互动类型"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (Reaction) TableName() string { return "reactions" }

// Report 举报记录，只追加
type Report struct {
	ID         uint      `gorm:"primaryKey"`
	PostID     uint      `gorm:"not null;index;comment:帖子ID"`
	ReporterID uint      `gorm:"not null;index;comment:举报人ID"`
	Reason     string    `gorm:"type:varchar(500);not null;comment:举报原因"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
}

func (Report) TableName() string { return "reports" }
