package jwt

import (
	"net/http"
	"time"
)

// CookieName is the cookie that carries the session token
const CookieName = "auth"

// SetSessionCookie stores the token in the "auth" cookie until it expires
func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the client to drop the "auth" cookie.
// The token itself stays valid until its expiry.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the token from the "auth" cookie, or "" if absent
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// HasAnyCookie reports whether the request carries a Cookie header at all.
// It is a display hint for the landing page and proves nothing about identity.
func HasAnyCookie(r *http.Request) bool {
	return r.Header.Get("Cookie") != ""
}
