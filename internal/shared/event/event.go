// Package event holds wire contracts for messages exchanged between modules
// and external consumers.
package event

// UserRegisteredDestination is the topic/subject for new account events.
const UserRegisteredDestination = "auth.user.registered"

// UserRegisteredMessage is the payload published when an account is created.
type UserRegisteredMessage struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}
