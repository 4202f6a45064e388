package session

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a conversation. Turns are append-only.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the per-user conversational state. A session is never deleted,
// it is merely treated as empty once LastActive is older than the timeout
// (the caller enforces that policy).
type Session struct {
	History    []Turn
	LastActive time.Time
}

// Trim keeps only the newest max turns.
func Trim(history []Turn, max int) []Turn {
	if len(history) > max {
		return history[len(history)-max:]
	}

	return history
}

// Expired reports whether the session has been idle for at least timeout.
func (s Session) Expired(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActive) >= timeout
}
