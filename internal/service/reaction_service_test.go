package service

import (
	"context"
	"testing"
	"time"

	"dualshot/internal/model"
	"dualshot/internal/repository"
	"dualshot/internal/testutil"
	"dualshot/pkg/apperr"
	"dualshot/pkg/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReactionService(t *testing.T) (*ReactionService, *gorm.DB, *recordingNotifier) {
	t.Helper()
	db := testutil.NewDB(t)
	n := &recordingNotifier{}
	s := NewReactionService(
		repository.NewReactionRepository(db),
		repository.NewReportRepository(db),
		repository.NewPostRepository(db),
		repository.NewFriendshipRepository(db),
		n,
		nil,
	)
	return s, db, n
}

func createPost(t *testing.T, db *gorm.DB, owner uint) *model.Post {
	t.Helper()
	p := &model.Post{UserID: owner, PostDate: time.Now().Format(model.PostDateLayout)}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestReactLastWriteWins(t *testing.T) {
	s, db, n := newReactionService(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	fan := testutil.CreateUser(t, db, "fan")
	post := createPost(t, db, author.ID)

	r, err := s.React(ctx, fan.ID, post.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultReactionType, r.ReactionType)

	r, err = s.React(ctx, fan.ID, post.ID, "LOVE")
	require.NoError(t, err)
	assert.Equal(t, "love", r.ReactionType)

	var count int64
	require.NoError(t, db.Model(&model.Reaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	events := n.sent()
	require.Len(t, events, 2)
	assert.Equal(t, author.ID, events[1].UserID)
	assert.Equal(t, websocket.EventReaction, events[1].Type)

	// 给自己的帖子互动不推送
	_, err = s.React(ctx, author.ID, post.ID, "like")
	require.NoError(t, err)
	assert.Len(t, n.sent(), 2)
}

func TestReactMissingPost(t *testing.T) {
	s, db, _ := newReactionService(t)
	u := testutil.CreateUser(t, db, "u")

	_, err := s.React(context.Background(), u.ID, 404, "like")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.React(context.Background(), u.ID, 0, "like")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestListForPostVisibility(t *testing.T) {
	s, db, _ := newReactionService(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	friend := testutil.CreateUser(t, db, "friend")
	stranger := testutil.CreateUser(t, db, "stranger")
	testutil.Befriend(t, db, author.ID, friend.ID)
	post := createPost(t, db, author.ID)

	_, err := s.React(ctx, friend.ID, post.ID, "wow")
	require.NoError(t, err)

	for _, viewer := range []uint{author.ID, friend.ID} {
		rows, err := s.ListForPost(ctx, viewer, post.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "wow", rows[0].ReactionType)
	}

	_, err = s.ListForPost(ctx, stranger.ID, post.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestUnreact(t *testing.T) {
	s, db, _ := newReactionService(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	post := createPost(t, db, author.ID)

	_, err := s.React(ctx, author.ID, post.ID, "like")
	require.NoError(t, err)
	require.NoError(t, s.Unreact(ctx, author.ID, post.ID))
	require.NoError(t, s.Unreact(ctx, author.ID, post.ID))

	rows, err := s.ListForPost(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReport(t *testing.T) {
	s, db, _ := newReactionService(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	reporter := testutil.CreateUser(t, db, "reporter")
	post := createPost(t, db, author.ID)

	report, err := s.Report(ctx, reporter.ID, post.ID, "  spam  ")
	require.NoError(t, err)
	assert.Equal(t, "spam", report.Reason)

	_, err = s.Report(ctx, reporter.ID, post.ID, "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.Equal(t, "Post ID and reason required", apperr.PublicMessage(err))
	_, err = s.Report(ctx, reporter.ID, 404, "spam")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
