package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/libbyyosef/team-availability/internal/auth/credentials"
	"github.com/libbyyosef/team-availability/internal/user"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so a caller cannot tell which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated covers an absent cookie, a token that fails to
	// decode and a claim whose user no longer exists. Callers cannot tell
	// these apart.
	ErrUnauthenticated = errors.New("not authenticated")
)

// UserLookup is the storage capability the session manager needs.
// FindByEmail must match case-sensitively; both return (nil, nil) when no
// row exists.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// Manager orchestrates login, logout and session resolution. It holds no
// per-session state: the encrypted cookie is the only record a session
// exists.
type Manager struct {
	codec  *Codec
	users  UserLookup
	cookie CookieOptions
}

func NewManager(codec *Codec, users UserLookup, cookie CookieOptions) *Manager {
	return &Manager{
		codec:  codec,
		users:  users,
		cookie: cookie.normalize(),
	}
}

// CookieName reports the name under which session tokens travel.
func (m *Manager) CookieName() string {
	return m.cookie.Name
}

// Login checks the credentials and issues a session token for the caller
// to attach as a cookie. Failures are uniform: no distinction between an
// unknown email and a wrong password.
func (m *Manager) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !credentials.VerifyPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := m.codec.Encode(Claim{UserID: u.ID})
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Resolve turns a token into a verified identity. A missing token, a
// token that fails to decode, and a decoded claim whose user id no longer
// resolves all yield ErrUnauthenticated.
func (m *Manager) Resolve(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claim, err := m.codec.Decode(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	u, err := m.users.FindByID(ctx, claim.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// well-formed token for a deleted account; never trusted
		return nil, ErrUnauthenticated
	}

	return u, nil
}

// IssueCookie attaches the session token to the response.
func (m *Manager) IssueCookie(w http.ResponseWriter, token string) {
	SetCookie(w, token, m.cookie)
}

// ClearCookie instructs the client to drop the session cookie. The token
// itself stays cryptographically valid until it expires; there is no
// server-side revocation.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	ClearCookie(w, m.cookie)
}
