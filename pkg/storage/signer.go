package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTokenInvalid reports a malformed or tampered token.
	ErrTokenInvalid = errors.New("storage: invalid signed token")
	// ErrTokenExpired reports a token whose validity window has lapsed.
	ErrTokenExpired = errors.New("storage: signed token expired")
)

// Signer creates and validates HMAC signed object tokens.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner constructs a signer with the provided secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Sign returns a token granting access to bucket/key until now+ttl.
func (s *Signer) Sign(bucket, key string, ttl time.Duration) (string, time.Time, error) {
	if bucket == "" || key == "" {
		return "", time.Time{}, fmt.Errorf("bucket and key required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	if ttl <= 0 {
		return "", time.Time{}, fmt.Errorf("ttl must be positive")
	}
	expiresAt := s.now().Add(ttl)
	exp := strconv.FormatInt(expiresAt.UnixMilli(), 10)
	encodedBucket := base64.RawURLEncoding.EncodeToString([]byte(bucket))
	encodedKey := base64.RawURLEncoding.EncodeToString([]byte(key))
	token := strings.Join([]string{encodedBucket, exp, encodedKey, s.mac(encodedBucket, exp, encodedKey)}, ".")
	return token, time.UnixMilli(expiresAt.UnixMilli()), nil
}

// Verify validates a token and returns the bucket and key it grants.
func (s *Signer) Verify(token string) (bucket, key string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, ErrTokenInvalid
	}
	encodedBucket, exp, encodedKey, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.mac(encodedBucket, exp, encodedKey)), []byte(signature)) {
		return "", "", time.Time{}, ErrTokenInvalid
	}
	expMillis, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", "", time.Time{}, ErrTokenInvalid
	}
	rawBucket, err := base64.RawURLEncoding.DecodeString(encodedBucket)
	if err != nil {
		return "", "", time.Time{}, ErrTokenInvalid
	}
	rawKey, err := base64.RawURLEncoding.DecodeString(encodedKey)
	if err != nil {
		return "", "", time.Time{}, ErrTokenInvalid
	}

	expiresAt = time.UnixMilli(expMillis)
	if !s.now().Before(expiresAt) {
		return "", "", time.Time{}, ErrTokenExpired
	}
	return string(rawBucket), string(rawKey), expiresAt, nil
}

func (s *Signer) mac(encodedBucket, exp, encodedKey string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(encodedBucket + "|" + exp + "|" + encodedKey))
	return hex.EncodeToString(mac.Sum(nil))
}
