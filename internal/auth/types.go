package auth

import "time"

// User is the persisted identity record. PasswordHash never leaves this
// package: every outward response goes through View.
type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string `json:"-"`
	PasswordChangedAt *time.Time
	LastLoginAt       *time.Time
	IsActive          bool
	IsVerified        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UserView is the explicit outward projection of a User. Fields are
// allow-listed here; anything not named is never serialized.
type UserView struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"isActive"`
	IsVerified  bool       `json:"isVerified"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// View returns the sanitized projection of u.
func (u *User) View() UserView {
	return UserView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
