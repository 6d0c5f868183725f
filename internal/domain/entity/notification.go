package entity

import "time"

const (
	WelcomeNotificationTitle   = "Welcome!"
	WelcomeNotificationMessage = "Your account has been created successfully."

	TestNotificationTitle   = "Test Notification"
	TestNotificationMessage = "This is a test notification to verify the system is working."
)

// Notification belongs to exactly one AuthIdentity. The only mutation it
// supports is IsRead going from false to true.
type Notification struct {
	ID        int64
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
	OwnerID   int64
}
