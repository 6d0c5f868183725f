// Package memory holds map-backed repositories used when DB_DRIVER=memory
// and by tests.
package memory

// Store groups the in-memory repositories so they can be handed around as a
// unit, the same way the postgres pool backs all three.
type Store struct {
	Profiles      *ProfileRepository
	Identities    *IdentityRepository
	Notifications *NotificationRepository
}

func NewStore() *Store {
	return &Store{
		Profiles:      NewProfileRepository(),
		Identities:    NewIdentityRepository(),
		Notifications: NewNotificationRepository(),
	}
}
