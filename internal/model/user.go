package model

import "time"

// User 账号模型
// 索引与唯一约束：邮箱唯一、用户名唯一、手机号（填写时）唯一
// 说明：密码仅存储哈希（PasswordHash），不存储明文
// 账号不做物理删除

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"type:varchar(128);not null;uniqueIndex;comment:邮箱"`
	Phone        *string   `gorm:"type:varchar(32);uniqueIndex;comment:手机号"`
	Username     string    `gorm:"type:varchar(64);not null;uniqueIndex;comment:用户名"`
	DisplayName  string    `gorm:"type:varchar(64);not null;comment:显示名称"`
	PasswordHash string    `gorm:"type:varchar(255);not null;comment:密码哈希"`
	AvatarURL    string    `gorm:"type:varchar(255);comment:头像URL"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (User) TableName() string { return "users" }
