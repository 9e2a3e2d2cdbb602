package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/app/services"
	"github.com/yigit/libraryhub/internal/pkg/apiclient"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/logger"
	"github.com/yigit/libraryhub/internal/session"
)

// rejectingBackend signs everyone in, then answers 403 to the profile request
func rejectingBackend(t *testing.T) (*session.Store, *services.Services, *[]string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/auth/login") || strings.HasSuffix(r.URL.Path, "/auth/verify-otp") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"data":{"accessToken":"tok","user":{"id":5,"role":"STUDENT"}}}`)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	store := newStore()
	var navigated []string
	watcher := session.NewWatcher(store, session.NavigatorFunc(func(path string) {
		navigated = append(navigated, path)
	}), logger.Nop())

	client, err := apiclient.New(apiclient.Options{
		BaseURL:        srv.URL + "/api/v1/library",
		Tokens:         store,
		OnUnauthorized: watcher,
		Logger:         logger.Nop(),
	})
	require.NoError(t, err)
	return store, services.New(client, logger.Nop()), &navigated
}

func TestLoginFailsWhenProfileRejectsToken(t *testing.T) {
	store, svc, navigated := rejectingBackend(t)
	c := NewAuthController(svc.Auth, store, nil, logger.Nop())

	res, err := c.Login(context.Background(), dto.LoginRequest{Username: "sam", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	assert.Nil(t, res)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, []string{session.LoginPath}, *navigated)
}

func TestOTPSubmitFailsWhenProfileRejectsToken(t *testing.T) {
	store, svc, _ := rejectingBackend(t)
	c := NewOTPController(5, svc.Auth, store, nil, logger.Nop())
	c.Paste("123456")

	redirect, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	assert.Empty(t, redirect)
	assert.Equal(t, OTPFailure, c.State())
	assert.False(t, store.IsAuthenticated())
}
