// Package domain contains core concepts of the chat relay.
// No runtime, network, or UI logic should be added here.
package domain

// User is a connected identity. The ID is generated once at registration
// and is the only field that matters for equality; the display name is
// free-form and may collide between users.
type User struct {
	ID          string
	Name        string
	Coordinator bool
}

// Equal compares users by ID only.
func (u User) Equal(other User) bool {
	return u.ID == other.ID
}
