package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/pkg/logger"
)

func TestWatcherInvalidatesAndRedirects(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	_, err := store.Establish(ctx, "tok", models.User{ID: 2}, nil)
	require.NoError(t, err)

	var visited []string
	w := NewWatcher(store, NavigatorFunc(func(p string) { visited = append(visited, p) }), logger.Nop())

	w.HandleUnauthorized(ctx, http.StatusForbidden)

	assert.Equal(t, StateAnonymous, store.State())
	assert.Empty(t, store.AccessToken())
	assert.Equal(t, []string{LoginPath}, visited)
}

func TestWatcherWithoutNavigator(t *testing.T) {
	store, _ := newTestStore()
	w := NewWatcher(store, nil, logger.Nop())
	assert.NotPanics(t, func() { w.HandleUnauthorized(context.Background(), http.StatusUnauthorized) })
}
