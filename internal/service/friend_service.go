package service

import (
	"context"
	"errors"
	"strings"

	"dualshot/internal/model"
	"dualshot/internal/repository"
	"dualshot/pkg/apperr"
	"dualshot/pkg/logger"
	"dualshot/pkg/websocket"

	"go.uber.org/zap"
)

// SearchLimit 搜索最多返回的账号数
const SearchLimit = 10

// FriendService 好友关系状态机：none -> pending -> accepted | declined
type FriendService struct {
	friends  *repository.FriendshipRepository
	users    *repository.UserRepository
	notifier Notifier
	observer Observer
}

func NewFriendService(friends *repository.FriendshipRepository, users *repository.UserRepository, notifier Notifier, observer Observer) *FriendService {
	return &FriendService{friends: friends, users: users, notifier: notifier, observer: observer}
}

// Request 发起好友申请 requesterID -> targetID
func (s *FriendService) Request(ctx context.Context, requesterID, targetID uint) error {
	if targetID == 0 {
		return apperr.BadRequest("Friend ID required")
	}
	if targetID == requesterID {
		return apperr.BadRequest("Cannot add yourself as friend")
	}
	exists, err := s.users.Exists(ctx, targetID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !exists {
		return apperr.NotFound("User not found")
	}

	// 对方已经向我发出申请时应当直接处理，而不是再建一条反向申请
	reverse, err := s.friends.Get(ctx, targetID, requesterID)
	switch {
	case err == nil && reverse.Status == model.FriendshipPending:
		return apperr.Conflict("This user has already sent you a friend request")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return apperr.Storage(err)
	}

	created, err := s.friends.CreatePending(ctx, requesterID, targetID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !created {
		existing, err := s.friends.Get(ctx, requesterID, targetID)
		if err != nil {
			return apperr.Storage(err)
		}
		if existing.Status != model.FriendshipDeclined {
			return apperr.Conflict("Friend request already exists")
		}
		// 被拒绝后允许重新申请
		if err := s.friends.ResetToPending(ctx, existing.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.Conflict("Friend request already exists")
			}
			return apperr.Storage(err)
		}
	}

	logger.Info("好友申请已发送", zap.Uint("user_id", requesterID), zap.Uint("friend_id", targetID))
	notify(s.notifier, s.observer, targetID, websocket.EventFriendRequest, map[string]interface{}{"user_id": requesterID})
	return nil
}

// Respond 处理 requesterID 发给 responderID 的申请
func (s *FriendService) Respond(ctx context.Context, responderID, requesterID uint, status string) error {
	if requesterID == 0 || status == "" {
		return apperr.BadRequest("Friend ID and status required")
	}

	var err error
	switch strings.ToLower(status) {
	case model.FriendshipAccepted:
		err = s.friends.Accept(ctx, requesterID, responderID)
	case model.FriendshipDeclined:
		err = s.friends.Decline(ctx, requesterID, responderID)
	default:
		return apperr.BadRequest("Invalid status")
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Friend request not found")
		}
		return apperr.Storage(err)
	}

	logger.Info("好友申请已处理",
		zap.Uint("user_id", responderID),
		zap.Uint("friend_id", requesterID),
		zap.String("status", status),
	)
	if strings.EqualFold(status, model.FriendshipAccepted) {
		notify(s.notifier, s.observer, requesterID, websocket.EventFriendAccepted, map[string]interface{}{"user_id": responderID})
	}
	return nil
}

// Unfriend 删除双向关系，不存在也返回成功
func (s *FriendService) Unfriend(ctx context.Context, userID, friendID uint) error {
	if friendID == 0 {
		return apperr.BadRequest("Friend ID required")
	}
	if _, err := s.friends.DeleteBoth(ctx, userID, friendID); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ListFriends 好友列表
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]model.User, error) {
	users, err := s.friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return users, nil
}

// ListRequests 收到的待处理申请
func (s *FriendService) ListRequests(ctx context.Context, userID uint) ([]repository.FriendRequestRow, error) {
	rows, err := s.friends.ListPendingRequests(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return rows, nil
}

// Search 按用户名或显示名称搜索账号
func (s *FriendService) Search(ctx context.Context, userID uint, query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.BadRequest("Search query required")
	}
	users, err := s.users.Search(ctx, userID, query, SearchLimit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return users, nil
}
