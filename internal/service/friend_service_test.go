package service

import (
	"context"
	"testing"

	"dualshot/internal/model"
	"dualshot/internal/repository"
	"dualshot/internal/testutil"
	"dualshot/pkg/apperr"
	"dualshot/pkg/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFriendService(t *testing.T) (*FriendService, *gorm.DB, *recordingNotifier) {
	t.Helper()
	db := testutil.NewDB(t)
	n := &recordingNotifier{}
	s := NewFriendService(repository.NewFriendshipRepository(db), repository.NewUserRepository(db), n, nil)
	return s, db, n
}

func TestFriendRequestAcceptFlow(t *testing.T) {
	s, db, n := newFriendService(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	require.NoError(t, s.Request(ctx, a.ID, b.ID))
	assert.ErrorIs(t, s.Request(ctx, a.ID, b.ID), apperr.ErrConflict)
	// 对方已发来申请时不能再反向申请
	assert.ErrorIs(t, s.Request(ctx, b.ID, a.ID), apperr.ErrConflict)

	reqs, err := s.ListRequests(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	require.NoError(t, s.Respond(ctx, b.ID, a.ID, "accepted"))
	assert.ErrorIs(t, s.Respond(ctx, b.ID, a.ID, "accepted"), apperr.ErrNotFound)

	friendsA, err := s.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friendsA, 1)
	assert.Equal(t, b.ID, friendsA[0].ID)
	friendsB, err := s.ListFriends(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, friendsB, 1)

	// 已经是好友时再申请视为冲突
	assert.ErrorIs(t, s.Request(ctx, a.ID, b.ID), apperr.ErrConflict)

	events := n.sent()
	require.Len(t, events, 2)
	assert.Equal(t, sentEvent{UserID: b.ID, Type: websocket.EventFriendRequest, Data: map[string]interface{}{"user_id": a.ID}}, events[0])
	assert.Equal(t, websocket.EventFriendAccepted, events[1].Type)
	assert.Equal(t, a.ID, events[1].UserID)
}

func TestFriendRequestValidation(t *testing.T) {
	s, db, _ := newFriendService(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a")

	err := s.Request(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.Equal(t, "Cannot add yourself as friend", apperr.PublicMessage(err))
	assert.ErrorIs(t, s.Request(ctx, a.ID, 999), apperr.ErrNotFound)
	assert.ErrorIs(t, s.Request(ctx, a.ID, 0), apperr.ErrBadRequest)
	assert.ErrorIs(t, s.Respond(ctx, a.ID, 5, "maybe"), apperr.ErrBadRequest)
}

func TestDeclinedRequestCanBeResent(t *testing.T) {
	s, db, _ := newFriendService(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	require.NoError(t, s.Request(ctx, a.ID, b.ID))
	require.NoError(t, s.Respond(ctx, b.ID, a.ID, "declined"))

	friends, err := s.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	require.NoError(t, s.Request(ctx, a.ID, b.ID))
	var edge model.Friendship
	require.NoError(t, db.Where("user_id = ? AND friend_id = ?", a.ID, b.ID).First(&edge).Error)
	assert.Equal(t, model.FriendshipPending, edge.Status)
}

func TestUnfriendIsIdempotent(t *testing.T) {
	s, db, _ := newFriendService(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	testutil.Befriend(t, db, a.ID, b.ID)

	require.NoError(t, s.Unfriend(ctx, a.ID, b.ID))
	require.NoError(t, s.Unfriend(ctx, a.ID, b.ID))

	friends, err := s.ListFriends(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestSearch(t *testing.T) {
	s, db, _ := newFriendService(t)
	ctx := context.Background()
	me := testutil.CreateUser(t, db, "me")
	for _, name := range []string{"ann", "anna", "annie", "bob"} {
		testutil.CreateUser(t, db, name)
	}

	users, err := s.Search(ctx, me.ID, "ann")
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = s.Search(ctx, me.ID, "  ")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}
