package main

import "github.com/akeren/event-rsvp/internal/gate"

// hashPassword applies the same normalization the gates use when PASSWORD_NORMALIZE is on.
func hashPassword(password string, normalize bool) string {
	return gate.Digest(password, normalize)
}
