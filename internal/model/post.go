package model

import "time"

// PostDateLayout 帖子所属自然日的存储格式（服务器本地时区）
const PostDateLayout = "2006-01-02"

// Post 每日双摄帖子，创建后不可修改
// (UserID, PostDate) 唯一，是“每人每天一条”的最终保证

type Post struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_post_user_day;comment:作者ID"`
	PostDate         string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_post_user_day;index;comment:所属日期"`
	FrontImageURL    string    `gorm:"type:varchar(255);not null;comment:前置摄像头图片"`
	BackImageURL     string    `gorm:"type:varchar(255);not null;comment:后置摄像头图片"`
	StitchedImageURL string    `gorm:"type:varchar(255);not null;comment:拼接图片"`
	Caption          string    `gorm:"type:varchar(500);comment:配文"`
	CreatedAt        time.Time `gorm:"index;comment:创建时间"`
}

func (Post) TableName() string { return "posts" }
