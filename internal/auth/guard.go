package auth

import "errors"

// ErrForbidden means the session is valid but belongs to someone other
// than the resource owner.
var ErrForbidden = errors.New("forbidden")

// RequireSelf gates any operation on a resource owned by a single user:
// it succeeds only when the authenticated identity owns the resource and
// fails with ErrForbidden for every other owner id. Pure, no I/O.
func RequireSelf(ownerID, identityID int64) error {
	if identityID != ownerID {
		return ErrForbidden
	}
	return nil
}
