package session

import (
	"net/http"
)

// CookieOptions defines how session cookies are issued. The exact same
// attribute set must be used when setting and clearing the cookie:
// browsers silently keep a cookie whose delete attributes do not match.
type CookieOptions struct {
	Name          string
	Path          string
	Domain        string
	MaxAgeSeconds int
	Secure        bool
	SameSite      http.SameSite
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Name == "" {
		o.Name = "uid"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// SetCookie issues the session cookie to the client. HttpOnly is always
// set; the token must never be readable by client script.
func SetCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    token,
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAgeSeconds,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client using the same
// attributes that were used at set-time.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
