// Package tokens signs the browser session cookie. The cookie carries an HS256 JWT
// whose subject is the user id and whose jti is the server-side session id.
package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

const (
	defaultIssuer = "clinic"
	minSecretLen  = 32
	clockSkew     = 5 * time.Second
)

// ErrInvalidToken indicates the token failed signature or claim validation.
var ErrInvalidToken = errors.New("invalid session token")

// Codec implements ports.TokenCodec with HMAC-SHA256.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithIssuer overrides the "iss" claim.
func WithIssuer(iss string) Option { return func(c *Codec) { c.issuer = iss } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(c *Codec) { c.now = now } }

// NewCodec creates a codec. The secret must be at least 32 bytes.
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("session token secret must be at least %d bytes", minSecretLen)
	}
	c := &Codec{secret: []byte(secret), issuer: defaultIssuer, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ ports.TokenCodec = (*Codec)(nil)

// Issue signs a token for sess that expires with it.
func (c *Codec) Issue(sess domainauth.Session) (string, error) {
	if sess.ID == "" || sess.UserID == "" {
		return "", errors.New("session id and user id are required")
	}
	issued := sess.IssuedAt
	if issued.IsZero() {
		issued = c.now()
	}
	claims := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   sess.UserID,
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, issuer and expiry, and returns the claims.
func (c *Codec) Parse(token string) (ports.TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return ports.TokenClaims{}, ErrInvalidToken
	}
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return ports.TokenClaims{}, ErrInvalidToken
	}
	if claims.ID == "" || claims.Subject == "" {
		return ports.TokenClaims{}, ErrInvalidToken
	}
	out := ports.TokenClaims{
		SessionID: claims.ID,
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	return out, nil
}
