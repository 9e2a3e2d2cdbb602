package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/logger"
)

func TestLoginRedirectsByRole(t *testing.T) {
	tests := []struct {
		role models.RoleType
		want string
	}{
		{models.RoleLibrarian, "/librarian/dashboard"},
		{models.RoleAdmin, "/admin/dashboard"},
		{models.RoleStudent, "/"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			store := newStore()
			auth := &fakeAuth{
				loginResp: &dto.LoginResponse{AccessToken: "tok", User: models.User{ID: 5, Role: tt.role}},
				profile:   &models.User{ID: 5, FullName: "Ann Lee"},
			}
			c := NewAuthController(auth, store, nil, logger.Nop())

			res, err := c.Login(context.Background(), dto.LoginRequest{Username: "ann", Password: "secret"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Redirect)
			assert.Equal(t, "Ann Lee", res.User.FullName)
			assert.True(t, store.IsAuthenticated())
		})
	}
}

func TestLoginKeepsMinimalUserWhenProfileFails(t *testing.T) {
	store := newStore()
	auth := &fakeAuth{
		loginResp:  &dto.LoginResponse{AccessToken: "tok", User: models.User{ID: 5, Username: "ann", Role: models.RoleStudent}},
		profileErr: errBackend,
	}
	n := &recordingNotifier{}
	c := NewAuthController(auth, store, n, logger.Nop())

	res, err := c.Login(context.Background(), dto.LoginRequest{Username: "ann", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "ann", store.CurrentUser().Username)
	assert.Equal(t, "/", res.Redirect)
	assert.Equal(t, []string{"Welcome back, ann"}, n.messages())
}

func TestLoginValidatesLocally(t *testing.T) {
	auth := &fakeAuth{loginErr: errBackend}
	c := NewAuthController(auth, newStore(), nil, logger.Nop())

	_, err := c.Login(context.Background(), dto.LoginRequest{Username: "ann"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRegisterGoesToOTP(t *testing.T) {
	auth := &fakeAuth{register: &dto.RegisterResponse{UserID: 44}}
	c := NewAuthController(auth, newStore(), nil, logger.Nop())

	res, err := c.Register(context.Background(), dto.RegisterRequest{
		Username: "ann", FullName: "Ann Lee", Email: "ann@library.edu", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(44), res.UserID)
	assert.Equal(t, "/verify-otp?userId=44", res.Redirect)
	assert.Equal(t, "ann@library.edu", res.Email)
}

func TestLogoutClearsSessionEvenWhenAnonymous(t *testing.T) {
	store := newStore()
	auth := &fakeAuth{}
	c := NewAuthController(auth, store, nil, logger.Nop())

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, 0, auth.logoutCalls)

	_, err := store.Establish(context.Background(), "tok", models.User{ID: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, 1, auth.logoutCalls)
	assert.False(t, store.IsAuthenticated())
}
