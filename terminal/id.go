package terminal

import "github.com/google/uuid"

// generateSessionID creates a random identifier for a session.
func generateSessionID() string {
	return "session-" + uuid.NewString()
}
