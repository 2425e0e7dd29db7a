package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User is the identity carried by a session token.
type User struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	LoginTime time.Time `json:"login_time"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthorName is the author string stamped on records this user submits.
// Admin submissions carry an "Admin: " prefix.
func (u *User) AuthorName() string {
	if u.IsAdmin() {
		return "Admin: " + u.Username
	}
	return u.Username
}

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStudent
}
