package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/baabuu/storefront/internal/pkg/sign"
)

var ErrInvalidToken = errors.New("invalid session token")

// Parser validates session tokens issued by the auth collaborator and
// extracts the user identifier.
type Parser interface {
	ParseToken(token string) (int64, error)
}

// Issuer mints tokens. The storefront itself only parses; issuing is kept
// for tests and local tooling.
type Issuer interface {
	IssueToken(userID int64) (string, error)
}

// Options tune token behaviour.
type Options struct {
	TTL time.Duration
}

// HMACStrategy implements session token creation/verification using HMAC
// signatures over a "userID:expiry" payload.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	// Only an unset TTL gets the default. A negative TTL is kept as-is so
	// callers can mint already-expired tokens.
	ttl := opts.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl}
}

// IssueToken generates a signed session token for the user.
func (s *HMACStrategy) IssueToken(userID int64) (string, error) {
	expires := time.Now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%d:%d", userID, expires)
	signed := fmt.Sprintf("%s:%s", payload, sign.HMACSHA256(s.secret, payload))
	return base64.StdEncoding.EncodeToString([]byte(signed)), nil
}

// ParseToken validates the token and returns the encoded user ID.
func (s *HMACStrategy) ParseToken(tok string) (int64, error) {
	raw, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		return 0, ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return 0, ErrInvalidToken
	}

	payload := strings.Join(parts[:2], ":")
	if !sign.Equal(sign.HMACSHA256(s.secret, payload), parts[2]) {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	if time.Unix(expires, 0).Before(time.Now()) {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
