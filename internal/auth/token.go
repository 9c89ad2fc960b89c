package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FailureKind classifies why a token was rejected. All kinds map to the
// same unauthenticated outcome at the HTTP boundary; the distinction is
// kept for logging.
type FailureKind int

const (
	Malformed FailureKind = iota
	BadSignature
	Expired
)

func (k FailureKind) String() string {
	switch k {
	case BadSignature:
		return "bad_signature"
	case Expired:
		return "expired"
	default:
		return "malformed"
	}
}

type VerificationError struct {
	Kind FailureKind
	err  error
}

func (e *VerificationError) Error() string {
	return "token verification failed: " + e.Kind.String()
}

func (e *VerificationError) Unwrap() error { return e.err }

type claims struct {
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens. The signing secret
// is loaded once at startup; rotating it invalidates every outstanding
// token.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl, now: time.Now}
}

// Issue mints a token asserting the subject until now+ttl.
func (c *TokenCodec) Issue(subjectID string) (string, error) {
	issued := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(c.ttl)),
		},
	})
	return token.SignedString(c.secret)
}

// Verify checks structure, signature, and expiry in that order and returns
// the subject id. Failures come back as *VerificationError.
func (c *TokenCodec) Verify(tokenString string) (string, error) {
	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", &VerificationError{Kind: classify(err), err: err}
	}
	if !token.Valid || parsed.Subject == "" {
		return "", &VerificationError{Kind: Malformed, err: errors.New("missing subject")}
	}
	return parsed.Subject, nil
}

func classify(err error) FailureKind {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Expired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return BadSignature
	default:
		return Malformed
	}
}
