package auth

import (
	"errors"
	"fmt"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/logger"
)

// CommentOwners resolves the author of a comment
type CommentOwners interface {
	CommentAuthor(commentID int64) (int64, error)
}

// AuthorizationService handles authorization checks of the development backend
type AuthorizationService struct {
	comments CommentOwners
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(comments CommentOwners) *AuthorizationService {
	return &AuthorizationService{comments: comments}
}

// CanManageLessons reports whether the role may edit lessons and their resources
func (s *AuthorizationService) CanManageLessons(role models.RoleType) bool {
	return role == models.RoleLibrarian || role == models.RoleAdmin
}

// ValidateCommentOwnership allows the author and admins to change a comment
func (s *AuthorizationService) ValidateCommentOwnership(userID int64, role models.RoleType, commentID int64) error {
	authorID, err := s.comments.CommentAuthor(commentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			logger.Error().Err(err).Int64("commentID", commentID).Msg("Error resolving comment author")
		}
		return err
	}

	if role == models.RoleAdmin || authorID == userID {
		return nil
	}
	return fmt.Errorf("%w: comment %d belongs to another user", apperrors.ErrPermissionDenied, commentID)
}

// ValidateSelfOrAdmin allows a user to read their own profile; admins and librarians read any
func (s *AuthorizationService) ValidateSelfOrAdmin(userID int64, role models.RoleType, targetID int64) error {
	if userID == targetID || s.CanManageLessons(role) {
		return nil
	}
	return apperrors.ErrPermissionDenied
}
