package api

import "time"

// Credentials представляет тело POST / и POST /signup
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUpData is the payload of a successful sign-up
type SignUpData struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Username  string    `json:"username"`
}

// Result is the {error, message, data} envelope returned by JSON endpoints.
// Error is 0 on success and 1 on failure.
type Result struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Error   int    `json:"error"`
}

// Result flags
const (
	ResultOK     = 0
	ResultFailed = 1
)

// Failed reports whether the result carries an error flag
func (r Result) Failed() bool {
	return r.Error != ResultOK
}
