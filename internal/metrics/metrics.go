// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login outcomes
const (
	LoginSuccess       = "success"
	LoginUnknownUser   = "unknown_user"
	LoginWrongPassword = "wrong_password"
)

// Access-list cache outcomes
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Recorder captures metric events for the application.
type Recorder interface {
	IncUserRegistered()
	IncLogin(result string)
	IncNoteCreated()
	IncNoteShared()
	IncACLCache(result string)
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}
