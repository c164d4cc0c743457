package model

import "time"

// MetaKeyDailyPrompt 每日提示在 meta 表中的键
const MetaKeyDailyPrompt = "daily_prompt"

// Meta 全局键值配置
type Meta struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"column:meta_key;type:varchar(64);not null;uniqueIndex;comment:键"`
	Value     string    `gorm:"column:meta_value;type:text;not null;comment:值"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (Meta) TableName() string { return "meta" }

// All 返回需要自动迁移的全部模型
func All() []interface{} {
	return []interface{}{&User{}, &Friendship{}, &Post{}, &Reaction{}, &Report{}, &Meta{}}
}
