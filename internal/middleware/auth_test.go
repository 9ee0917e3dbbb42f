package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libbyyosef/team-availability/internal/auth/session"
	"github.com/libbyyosef/team-availability/internal/user"
)

type fakeLookup struct {
	users map[int64]*user.User
}

func (f *fakeLookup) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeLookup) FindByID(_ context.Context, id int64) (*user.User, error) {
	return f.users[id], nil
}

func newTestSessions(t *testing.T, lookup session.UserLookup) (*session.Manager, *session.Codec) {
	t.Helper()
	secret := base64.RawURLEncoding.EncodeToString(bytes.Repeat([]byte{0x11}, 32))
	codec, err := session.NewCodec(secret)
	require.NoError(t, err)
	return session.NewManager(codec, lookup, session.CookieOptions{Name: "uid"}), codec
}

func protectedHandler(t *testing.T, sessions *session.Manager) http.Handler {
	t.Helper()
	mw := NewAuthMiddleware(sessions)
	return mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := user.IdentityFromContext(r.Context())
		require.True(t, ok, "identity must be in context past the middleware")
		w.Write([]byte(identity.Email))
	}))
}

func TestRequireAuth_NoCookie(t *testing.T) {
	sessions, _ := newTestSessions(t, &fakeLookup{})
	handler := protectedHandler(t, sessions)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "not authenticated")
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	u := &user.User{ID: 5, Email: "a@x.com"}
	sessions, codec := newTestSessions(t, &fakeLookup{users: map[int64]*user.User{5: u}})
	handler := protectedHandler(t, sessions)

	token, err := codec.Encode(session.Claim{UserID: 5})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "uid", Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", rec.Body.String())
}

func TestRequireAuth_TamperedCookie(t *testing.T) {
	u := &user.User{ID: 5, Email: "a@x.com"}
	sessions, codec := newTestSessions(t, &fakeLookup{users: map[int64]*user.User{5: u}})
	handler := protectedHandler(t, sessions)

	token, err := codec.Encode(session.Claim{UserID: 5})
	require.NoError(t, err)
	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "uid", Value: base64.RawURLEncoding.EncodeToString(raw)})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type brokenLookup struct{}

func (brokenLookup) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, errors.New("db down")
}

func (brokenLookup) FindByID(context.Context, int64) (*user.User, error) {
	return nil, errors.New("db down")
}

func TestRequireAuth_StorageErrorIsNotUnauthorized(t *testing.T) {
	// a database outage must not tell the client to re-login
	sessions, codec := newTestSessions(t, brokenLookup{})
	handler := protectedHandler(t, sessions)

	token, err := codec.Encode(session.Claim{UserID: 5})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "uid", Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "not authenticated")
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	// token minted while the account existed, presented after deletion
	sessions, codec := newTestSessions(t, &fakeLookup{users: map[int64]*user.User{}})
	handler := protectedHandler(t, sessions)

	token, err := codec.Encode(session.Claim{UserID: 5})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "uid", Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
