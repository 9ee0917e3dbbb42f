package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Claim is the payload embedded in a session token. The canonical claim
// key is "uid"; decoding rejects tokens where it is missing or not an
// integer.
type Claim struct {
	UserID int64
}

// ErrInvalidToken covers every decode failure: bad encoding, failed
// authentication tag, malformed payload, missing or mistyped uid. Callers
// must not surface it directly; the session manager collapses it into the
// generic unauthenticated error.
var ErrInvalidToken = errors.New("invalid session token")

const keySize = 32 // AES-256

// Codec performs authenticated encryption of session claims with one
// process-wide key. The key is read-only after construction, so a single
// Codec is safe for concurrent use.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec builds a Codec from a base64url-encoded 32-byte secret. An
// empty, malformed or wrong-length secret is a construction error; the
// caller treats it as fatal at startup.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session: secret is empty")
	}

	key, err := base64.RawURLEncoding.DecodeString(secret)
	if err != nil {
		// tolerate padded input
		key, err = base64.URLEncoding.DecodeString(secret)
	}
	if err != nil {
		return nil, fmt.Errorf("session: secret is not valid base64url: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("session: secret must decode to %d bytes, got %d", keySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	return &Codec{aead: aead}, nil
}

type claimPayload struct {
	UID *int64 `json:"uid"`
}

// Encode seals a claim into an opaque, cookie-safe token:
// base64url(nonce || AES-GCM(compact JSON)).
func (c *Codec) Encode(claim Claim) (string, error) {
	raw, err := json.Marshal(claimPayload{UID: &claim.UserID})
	if err != nil {
		return "", fmt.Errorf("session: encode claim: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session: generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, raw, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a token and parses the claim. It either returns exactly
// one well-formed claim or ErrInvalidToken; there is no partial trust.
func (c *Codec) Decode(token string) (Claim, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Claim{}, ErrInvalidToken
	}

	nonceSize := c.aead.NonceSize()
	if len(sealed) < nonceSize+1 {
		return Claim{}, ErrInvalidToken
	}

	raw, err := c.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return Claim{}, ErrInvalidToken
	}

	var payload claimPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Claim{}, ErrInvalidToken
	}
	if payload.UID == nil {
		return Claim{}, ErrInvalidToken
	}

	return Claim{UserID: *payload.UID}, nil
}
