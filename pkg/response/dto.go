package response

import (
	"dualshot/internal/model"
	"dualshot/internal/repository"
)

const timeLayout = "2006-01-02 15:04:05"

// UserInfo 用户信息（隐藏敏感字段）
type UserInfo struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	AvatarURL   string  `json:"avatar_url"`
	CreatedAt   string  `json:"created_at"`
}

// FilterUserInfo 过滤用户信息，隐藏密码哈希
func FilterUserInfo(user *model.User) *UserInfo {
	if user == nil {
		return nil
	}

	return &UserInfo{
		ID:          user.ID,
		Email:       user.Email,
		Phone:       user.Phone,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt.Format(timeLayout),
	}
}

// PublicUserInfo 他人可见的信息，不含邮箱和手机号
func PublicUserInfo(user *model.User) *UserInfo {
	info := FilterUserInfo(user)
	if info != nil {
		info.Email = ""
		info.Phone = nil
	}
	return info
}

// PublicUsers 批量转换
func PublicUsers(users []model.User) []*UserInfo {
	out := make([]*UserInfo, 0, len(users))
	for i := range users {
		out = append(out, PublicUserInfo(&users[i]))
	}
	return out
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	User        *UserInfo `json:"user"`
	AccessToken string    `json:"token"`
}

// PostInfo 帖子信息
type PostInfo struct {
	ID               uint   `json:"id"`
	UserID           uint   `json:"user_id"`
	PostDate         string `json:"post_date"`
	FrontImageURL    string `json:"front_image_url"`
	BackImageURL     string `json:"back_image_url"`
	StitchedImageURL string `json:"stitched_image_url"`
	Caption          string `json:"caption"`
	CreatedAt        string `json:"created_at"`
}

// FilterPostInfo 转换帖子
func FilterPostInfo(post *model.Post) *PostInfo {
	if post == nil {
		return nil
	}
	return &PostInfo{
		ID:               post.ID,
		UserID:           post.UserID,
		PostDate:         post.PostDate,
		FrontImageURL:    post.FrontImageURL,
		BackImageURL:     post.BackImageURL,
		StitchedImageURL: post.StitchedImageURL,
		Caption:          post.Caption,
		CreatedAt:        post.CreatedAt.Format(timeLayout),
	}
}

// FilterPosts 批量转换
func FilterPosts(posts []model.Post) []*PostInfo {
	out := make([]*PostInfo, 0, len(posts))
	for i := range posts {
		out = append(out, FilterPostInfo(&posts[i]))
	}
	return out
}

// FeedItem 动态中的一条帖子，附带作者信息
type FeedItem struct {
	PostInfo
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

// FilterFeed 转换动态，时间格式与 PostInfo 一致
func FilterFeed(rows []repository.FeedRow) []*FeedItem {
	out := make([]*FeedItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, &FeedItem{
			PostInfo: PostInfo{
				ID:               r.ID,
				UserID:           r.UserID,
				PostDate:         r.PostDate,
				FrontImageURL:    r.FrontImageURL,
				BackImageURL:     r.BackImageURL,
				StitchedImageURL: r.StitchedImageURL,
				Caption:          r.Caption,
				CreatedAt:        r.CreatedAt.Format(timeLayout),
			},
			Username:    r.Username,
			DisplayName: r.DisplayName,
			AvatarURL:   r.AvatarURL,
		})
	}
	return out
}
