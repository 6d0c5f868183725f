package entity

import "time"

// UserProfile is a managed directory entry. It has no relation to AuthIdentity.
type UserProfile struct {
	ID        int64
	Name      string
	Email     string
	Age       *int
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch refreshes UpdatedAt and, for a new profile, CreatedAt.
func (u *UserProfile) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}
