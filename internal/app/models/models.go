package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "STUDENT"
	RoleLibrarian RoleType = "LIBRARIAN"
	RoleAdmin     RoleType = "ADMIN"
)

// HomePath returns the landing page for a role after login
func (r RoleType) HomePath() string {
	switch r {
	case RoleLibrarian:
		return "/librarian/dashboard"
	case RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/"
	}
}

// Page is the list envelope used by every paginated endpoint
type Page[T any] struct {
	PageList      []T   `json:"pageList"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
}
