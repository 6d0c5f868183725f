package entity

import "time"

// AuthIdentity is a login principal. It owns notifications and is independent
// from the UserProfile registry.
//
// PasswordHash holds a bcrypt hash, never the plain password.
type AuthIdentity struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Roles        Roles
	VerifiedAt   *time.Time
	CreatedAt    time.Time
}

func (a *AuthIdentity) IsVerified() bool {
	return a.VerifiedAt != nil
}
