package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/mockapi"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/logger"
)

func TestCreateDefaultData(t *testing.T) {
	store := mockapi.NewStore()

	res, err := CreateDefaultData(store, logger.Nop())
	require.NoError(t, err)

	account, err := store.Authenticate(LibrarianUsername, DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, res.LibrarianID, account.ID)

	comments, err := store.Comments(res.LessonID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, "Lena Librarian", comments[0].Replies[0].Author)

	reviews := store.Reviews(DefaultBookID, 0, "")
	require.Len(t, reviews, 1)
	assert.Equal(t, res.StudentID, reviews[0].StudentID)
}

func TestCreateDefaultDataTwiceReportsConflicts(t *testing.T) {
	store := mockapi.NewStore()
	_, err := CreateDefaultData(store, logger.Nop())
	require.NoError(t, err)

	_, err = CreateDefaultData(store, logger.Nop())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
