// Package cookie reads and writes the session cookies.
package cookie

import (
	"net/http"
	"time"

	"github.com/dtroode/groupfeed/internal/model"
)

const (
	AccessTokenName  = "sb-access-token"
	RefreshTokenName = "sb-refresh-token"
)

// refreshMaxAge bounds the refresh cookie; the provider decides whether the
// token itself is still valid.
const refreshMaxAge = 30 * 24 * time.Hour

// Jar writes session cookies with a fixed security profile.
type Jar struct {
	secure bool
}

func NewJar(secure bool) *Jar {
	return &Jar{secure: secure}
}

// Read returns the access and refresh tokens carried by r. Missing cookies
// yield empty strings.
func (j *Jar) Read(r *http.Request) (accessToken, refreshToken string) {
	if c, err := r.Cookie(AccessTokenName); err == nil {
		accessToken = c.Value
	}
	if c, err := r.Cookie(RefreshTokenName); err == nil {
		refreshToken = c.Value
	}
	return accessToken, refreshToken
}

// Set writes both session cookies. The access cookie expires with the token
// when the provider reported an expiry.
func (j *Jar) Set(w http.ResponseWriter, session model.Session) {
	access := j.cookie(AccessTokenName, session.AccessToken)
	if !session.ExpiresAt.IsZero() {
		access.Expires = session.ExpiresAt
	}
	http.SetCookie(w, access)

	refresh := j.cookie(RefreshTokenName, session.RefreshToken)
	refresh.MaxAge = int(refreshMaxAge.Seconds())
	http.SetCookie(w, refresh)
}

// Clear expires both session cookies.
func (j *Jar) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenName, RefreshTokenName} {
		c := j.cookie(name, "")
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func (j *Jar) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
