package service

import (
	"context"
	"errors"
	"io"
	"time"

	"dualshot/internal/model"
	"dualshot/internal/repository"
	"dualshot/pkg/apperr"
	"dualshot/pkg/logger"
	"dualshot/pkg/metrics"
	"dualshot/pkg/sanitize"
	"dualshot/pkg/stitch"
	"dualshot/pkg/storage"
	"dualshot/pkg/websocket"

	"go.uber.org/zap"
)

const maxCaptionLen = 500

// ImagePart 上传的一张图片
type ImagePart struct {
	Filename string
	Reader   io.Reader
}

// CreatePostInput 发帖参数
type CreatePostInput struct {
	OwnerID uint
	Front   ImagePart
	Back    ImagePart
	Caption string
}

// PostService 每日发帖与好友动态
type PostService struct {
	posts      *repository.PostRepository
	friends    *repository.FriendshipRepository
	store      *storage.LocalStore
	compositor *stitch.Compositor
	notifier   Notifier
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewPostService(
	posts *repository.PostRepository,
	friends *repository.FriendshipRepository,
	store *storage.LocalStore,
	compositor *stitch.Compositor,
	notifier Notifier,
	m *metrics.Metrics,
) *PostService {
	return &PostService{
		posts:      posts,
		friends:    friends,
		store:      store,
		compositor: compositor,
		notifier:   notifier,
		metrics:    m,
		now:        time.Now,
	}
}

// SetClock 替换时钟，用于按天模拟
func (s *PostService) SetClock(now func() time.Time) {
	s.now = now
}

// Today 服务器本地时区的当前日期
func (s *PostService) Today() string {
	return s.now().Local().Format(model.PostDateLayout)
}

// Create 每个账号每天只能发一条
// 先查询当天是否已发，再保存原图、拼图、写库；写库时的唯一索引兜底并发请求
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	if in.Front.Reader == nil || in.Back.Reader == nil {
		return nil, apperr.BadRequest("Both front and back images required")
	}
	caption := sanitize.Text(in.Caption, maxCaptionLen)
	day := s.Today()

	exists, err := s.posts.ExistsForDay(ctx, in.OwnerID, day)
	if err != nil {
		s.metrics.ObservePost("error")
		return nil, apperr.Storage(err)
	}
	if exists {
		logger.Debug("当天已发帖", zap.Uint("user_id", in.OwnerID), zap.String("post_date", day))
		s.metrics.ObservePost("duplicate")
		return nil, apperr.New(apperr.CodeDuplicatePost, "You can only post once per day")
	}

	frontName := s.store.NewName("front_image", sanitize.ImageExt(in.Front.Filename))
	backName := s.store.NewName("back_image", sanitize.ImageExt(in.Back.Filename))
	stitchedName := s.store.NewName("stitched", ".png")

	if err := s.store.Save(frontName, in.Front.Reader); err != nil {
		s.metrics.ObservePost("error")
		return nil, apperr.Storage(err)
	}
	if err := s.store.Save(backName, in.Back.Reader); err != nil {
		s.discard(frontName)
		s.metrics.ObservePost("error")
		return nil, apperr.Storage(err)
	}

	start := time.Now()
	size, err := s.compositor.Compose(ctx, s.store.Path(frontName), s.store.Path(backName), s.store.Path(stitchedName))
	s.metrics.ObserveComposite(time.Since(start), err)
	if err != nil {
		s.discard(frontName, backName, stitchedName)
		s.metrics.ObservePost("composition_failed")
		logger.Warn("拼图失败", zap.Uint("user_id", in.OwnerID), zap.Error(err))
		return nil, apperr.Wrap(err, apperr.CodeCompositionFailed, "Failed to process images")
	}

	post := &model.Post{
		UserID:           in.OwnerID,
		PostDate:         day,
		FrontImageURL:    s.store.URL(frontName),
		BackImageURL:     s.store.URL(backName),
		StitchedImageURL: s.store.URL(stitchedName),
		Caption:          caption,
		CreatedAt:        s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.discard(frontName, backName, stitchedName)
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.ObservePost("duplicate")
			return nil, apperr.New(apperr.CodeDuplicatePost, "You can only post once per day")
		}
		s.metrics.ObservePost("error")
		return nil, apperr.Storage(err)
	}
	s.metrics.ObservePost("created")

	logger.Info("发帖成功",
		zap.Uint("user_id", in.OwnerID),
		zap.Uint("post_id", post.ID),
		zap.String("post_date", day),
		zap.Int("width", size.X),
		zap.Int("height", size.Y),
	)
	s.notifyViewers(ctx, post)
	return post, nil
}

// ListMine 自己的全部帖子
func (s *PostService) ListMine(ctx context.Context, userID uint) ([]model.Post, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return posts, nil
}

// Feed 今天好友发的帖子，新的在前
func (s *PostService) Feed(ctx context.Context, viewerID uint) ([]repository.FeedRow, error) {
	rows, err := s.posts.Feed(ctx, viewerID, s.Today())
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return rows, nil
}

func (s *PostService) notifyViewers(ctx context.Context, post *model.Post) {
	if s.notifier == nil {
		return
	}
	viewers, err := s.friends.ListViewerIDs(ctx, post.UserID)
	if err != nil {
		logger.Warn("查询好友失败，跳过推送", zap.Uint("user_id", post.UserID), zap.Error(err))
		return
	}
	payload := map[string]interface{}{
		"post_id":            post.ID,
		"user_id":            post.UserID,
		"stitched_image_url": post.StitchedImageURL,
	}
	for _, id := range viewers {
		notify(s.notifier, s.metrics, id, websocket.EventNewPost, payload)
	}
}

// discard 尽力删除本次请求写入的文件
func (s *PostService) discard(names ...string) {
	if err := s.store.Remove(names...); err != nil {
		logger.Warn("清理上传文件失败", zap.Error(err))
	}
}
