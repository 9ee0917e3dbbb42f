package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libbyyosef/team-availability/internal/auth/credentials"
	"github.com/libbyyosef/team-availability/internal/user"
)

type fakeLookup struct {
	byEmail map[string]*user.User
	byID    map[int64]*user.User
	err     error
}

func (f *fakeLookup) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
}

func (f *fakeLookup) FindByID(_ context.Context, id int64) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func newTestManager(t *testing.T, lookup *fakeLookup) *Manager {
	t.Helper()
	return NewManager(newTestCodec(t), lookup, CookieOptions{
		Name:          "uid",
		Path:          "/",
		MaxAgeSeconds: 3600,
		Secure:        true,
		SameSite:      http.SameSiteLaxMode,
	})
}

func testUser(t *testing.T) *user.User {
	t.Helper()
	hash, err := credentials.HashPassword("correct")
	require.NoError(t, err)
	return &user.User{
		ID:           5,
		Email:        "a@x.com",
		PasswordHash: hash,
		FirstName:    "Avi",
		LastName:     "Cohen",
	}
}

func TestManager_LoginIssuesResolvableToken(t *testing.T) {
	u := testUser(t)
	mgr := newTestManager(t, &fakeLookup{
		byEmail: map[string]*user.User{u.Email: u},
		byID:    map[int64]*user.User{u.ID: u},
	})

	identity, token, err := mgr.Login(context.Background(), "a@x.com", "correct")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(5), identity.ID)

	resolved, err := mgr.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, identity, resolved)
}

func TestManager_LoginFailuresAreUniform(t *testing.T) {
	u := testUser(t)
	mgr := newTestManager(t, &fakeLookup{
		byEmail: map[string]*user.User{u.Email: u},
		byID:    map[int64]*user.User{u.ID: u},
	})

	_, _, unknownEmail := mgr.Login(context.Background(), "nobody@x.com", "correct")
	_, _, wrongPassword := mgr.Login(context.Background(), "a@x.com", "wrong")

	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.Equal(t, unknownEmail.Error(), wrongPassword.Error(),
		"error must not reveal whether the email exists")
}

func TestManager_LoginEmailIsCaseSensitive(t *testing.T) {
	u := testUser(t)
	mgr := newTestManager(t, &fakeLookup{
		byEmail: map[string]*user.User{u.Email: u},
	})

	_, _, err := mgr.Login(context.Background(), "A@X.COM", "correct")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestManager_ResolveFailures(t *testing.T) {
	u := testUser(t)
	mgr := newTestManager(t, &fakeLookup{
		byEmail: map[string]*user.User{u.Email: u},
		byID:    map[int64]*user.User{},
	})

	// absent token
	_, err := mgr.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// garbage token
	_, err = mgr.Resolve(context.Background(), "ZZZZZZZZ")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// valid token, deleted user
	_, token, loginErr := mgr.Login(context.Background(), "a@x.com", "correct")
	require.NoError(t, loginErr)
	_, err = mgr.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestManager_ResolvePropagatesStorageErrors(t *testing.T) {
	boom := errors.New("db down")
	mgr := newTestManager(t, &fakeLookup{err: boom})

	codec := newTestCodec(t)
	token, err := codec.Encode(Claim{UserID: 5})
	require.NoError(t, err)

	_, err = mgr.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, boom, "infrastructure faults are not unauthenticated")
}

func TestManager_CookieAttributesMatchBetweenSetAndClear(t *testing.T) {
	mgr := newTestManager(t, &fakeLookup{})

	setRec := httptest.NewRecorder()
	mgr.IssueCookie(setRec, "token-value")
	clearRec := httptest.NewRecorder()
	mgr.ClearCookie(clearRec)

	set := setRec.Result().Cookies()
	cleared := clearRec.Result().Cookies()
	require.Len(t, set, 1)
	require.Len(t, cleared, 1)

	assert.Equal(t, "uid", set[0].Name)
	assert.Equal(t, "token-value", set[0].Value)
	assert.Equal(t, 3600, set[0].MaxAge)
	assert.True(t, set[0].HttpOnly)

	// delete must mirror set exactly, except value and max-age
	assert.Equal(t, set[0].Name, cleared[0].Name)
	assert.Equal(t, set[0].Path, cleared[0].Path)
	assert.Equal(t, set[0].Domain, cleared[0].Domain)
	assert.Equal(t, set[0].Secure, cleared[0].Secure)
	assert.Equal(t, set[0].SameSite, cleared[0].SameSite)
	assert.Equal(t, set[0].HttpOnly, cleared[0].HttpOnly)
	assert.Empty(t, cleared[0].Value)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

// Logout only clears the cookie client-side; a replayed token stays valid
// until it expires. This is the documented trade-off of stateless
// sessions, asserted here so a change to it is a deliberate one.
func TestManager_ReplayAfterLogoutStillResolves(t *testing.T) {
	u := testUser(t)
	mgr := newTestManager(t, &fakeLookup{
		byEmail: map[string]*user.User{u.Email: u},
		byID:    map[int64]*user.User{u.ID: u},
	})

	_, token, err := mgr.Login(context.Background(), "a@x.com", "correct")
	require.NoError(t, err)

	mgr.ClearCookie(httptest.NewRecorder())

	resolved, err := mgr.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resolved.ID)
}
