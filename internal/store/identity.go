package store

// UserIdentity is the process-local visitor record shared by both
// stores. ID and Name survive restarts (the client persists them);
// IsAdmin is session-only and resets on every start.
type UserIdentity struct {
	ID      string
	Name    string
	IsAdmin bool
}
