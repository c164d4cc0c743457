package service

import (
	"context"
	"errors"
	"strings"

	"dualshot/internal/model"
	"dualshot/internal/repository"
	"dualshot/pkg/apperr"
	"dualshot/pkg/sanitize"
	"dualshot/pkg/websocket"
)

const (
	maxReactionTypeLen = 32
	maxReasonLen       = 500
)

// ReactionService 互动与举报
type ReactionService struct {
	reactions *repository.ReactionRepository
	reports   *repository.ReportRepository
	posts     *repository.PostRepository
	friends   *repository.FriendshipRepository
	notifier  Notifier
	observer  Observer
}

func NewReactionService(
	reactions *repository.ReactionRepository,
	reports *repository.ReportRepository,
	posts *repository.PostRepository,
	friends *repository.FriendshipRepository,
	notifier Notifier,
	observer Observer,
) *ReactionService {
	return &ReactionService{
		reactions: reactions,
		reports:   reports,
		posts:     posts,
		friends:   friends,
		notifier:  notifier,
		observer:  observer,
	}
}

// React 对帖子互动，重复互动覆盖为最新类型
func (s *ReactionService) React(ctx context.Context, userID, postID uint, kind string) (*model.Reaction, error) {
	if postID == 0 {
		return nil, apperr.BadRequest("Post ID required")
	}
	kind = sanitize.Text(strings.ToLower(kind), maxReactionTypeLen)
	if kind == "" {
		kind = model.DefaultReactionType
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	reaction, err := s.reactions.Upsert(ctx, postID, userID, kind)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if post.UserID != userID {
		notify(s.notifier, s.observer, post.UserID, websocket.EventReaction, map[string]interface{}{
			"post_id":       postID,
			"user_id":       userID,
			"reaction_type": kind,
		})
	}
	return reaction, nil
}

// Unreact 删除自己的互动，不存在也返回成功
func (s *ReactionService) Unreact(ctx context.Context, userID, postID uint) error {
	if postID == 0 {
		return apperr.BadRequest("Post ID required")
	}
	if _, err := s.reactions.Delete(ctx, postID, userID); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ListForPost 帖子的互动列表，只有作者和能看到该帖子的好友可以查看
func (s *ReactionService) ListForPost(ctx context.Context, viewerID, postID uint) ([]repository.ReactionRow, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != viewerID {
		edge, err := s.friends.Get(ctx, viewerID, post.UserID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && edge.Status != model.FriendshipAccepted) {
			return nil, apperr.Forbidden("You are not friends with the author")
		}
		if err != nil {
			return nil, apperr.Storage(err)
		}
	}

	rows, err := s.reactions.ListByPost(ctx, postID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return rows, nil
}

// Report 举报帖子，只追加记录
func (s *ReactionService) Report(ctx context.Context, reporterID, postID uint, reason string) (*model.Report, error) {
	reason = sanitize.Text(reason, maxReasonLen)
	if postID == 0 || reason == "" {
		return nil, apperr.BadRequest("Post ID and reason required")
	}
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	report := &model.Report{PostID: postID, ReporterID: reporterID, Reason: reason}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperr.Storage(err)
	}
	return report, nil
}

func (s *ReactionService) getPost(ctx context.Context, postID uint) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Post not found")
		}
		return nil, apperr.Storage(err)
	}
	return post, nil
}
