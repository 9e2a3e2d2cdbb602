package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/logger"
)

func TestCommentThreadSingleReplyBox(t *testing.T) {
	th := NewCommentThread(3, &fakeComments{}, logger.Nop())

	_, ok := th.ReplyTarget()
	assert.False(t, ok)

	th.OpenReply(7)
	th.OpenReply(8)
	target, ok := th.ReplyTarget()
	require.True(t, ok)
	assert.Equal(t, int64(8), target)

	th.CloseReply()
	_, ok = th.ReplyTarget()
	assert.False(t, ok)
}

func TestCommentThreadPostAndReply(t *testing.T) {
	svc := &fakeComments{items: []models.Comment{{CommentID: 7, Content: "Question"}}}
	th := NewCommentThread(3, svc, logger.Nop())
	ctx := context.Background()
	require.NoError(t, th.Load(ctx))

	assert.ErrorIs(t, th.Reply(ctx, "Thanks"), apperrors.ErrNoReplyTarget)

	th.OpenReply(7)
	require.NoError(t, th.Reply(ctx, "Thanks"))
	require.Len(t, svc.created, 1)
	require.NotNil(t, svc.created[0].ParentID)
	assert.Equal(t, int64(7), *svc.created[0].ParentID)

	_, open := th.ReplyTarget()
	assert.False(t, open, "posting a reply closes the box")
	assert.Len(t, th.Comments()[0].Replies, 1, "thread is reloaded with the nested reply")

	require.NoError(t, th.Post(ctx, "New topic"))
	assert.Nil(t, svc.created[1].ParentID)
	assert.Len(t, th.Comments(), 2)
	assert.Equal(t, 3, svc.loads)
}

func TestCommentThreadRejectsBlankText(t *testing.T) {
	svc := &fakeComments{}
	th := NewCommentThread(3, svc, logger.Nop())

	assert.ErrorIs(t, th.Post(context.Background(), "   "), apperrors.ErrValidationFailed)
	th.OpenReply(1)
	assert.ErrorIs(t, th.Reply(context.Background(), ""), apperrors.ErrValidationFailed)
	assert.Empty(t, svc.created)
}

func TestCommentThreadDeleteClosesReplyBox(t *testing.T) {
	th := NewCommentThread(3, &fakeComments{}, logger.Nop())
	th.OpenReply(4)

	require.NoError(t, th.Delete(context.Background(), 4))
	_, open := th.ReplyTarget()
	assert.False(t, open)
}
