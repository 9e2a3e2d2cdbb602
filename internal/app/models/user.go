package models

// User is the client-side copy of the signed-in account.
// The login response may carry only ID and Role; the profile endpoint fills the rest.
type User struct {
	ID       int64    `json:"id" example:"1"`
	Username string   `json:"username,omitempty" example:"jdoe"`
	FullName string   `json:"fullName,omitempty" example:"John Doe"`
	Email    string   `json:"email,omitempty" example:"jdoe@library.edu"`
	Role     RoleType `json:"role,omitempty" example:"STUDENT"`
	Avatar   string   `json:"avatar,omitempty"`
}

// DisplayName prefers the full name and falls back to the username
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
