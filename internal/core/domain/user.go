package domain

import "time"

// User is a registered account. PasswordHash holds "<salt>.<hash>" in hex.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy makes an account its own owner.
func (u *User) OwnedBy() string { return u.ID }

// Actor returns the authorization context for u.
func (u *User) Actor() *Actor {
	return &Actor{ID: u.ID, IsAdmin: u.IsAdmin}
}

// UserPatch is a partial self-service update. Admin status changes only
// through SetAdmin.
type UserPatch struct {
	Email    *string
	Password *string
}
