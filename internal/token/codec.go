package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"
)

// ErrInvalidToken covers bad signatures, wrong kind, malformed input and expiry.
var ErrInvalidToken = errors.New("invalid token")

// Kind selects the secret, lifetime and audience of a token.
type Kind int

const (
	Access Kind = iota
	Refresh
)

func (k Kind) String() string {
	switch k {
	case Access:
		return "access"
	case Refresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Claims carried by both token kinds.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens.
type Codec struct {
	cfg Config
	now func() time.Time
}

func NewCodec(cfg Config) (*Codec, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Codec{cfg: cfg, now: time.Now}, nil
}

// WithClock returns a copy of c that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL returns the lifetime of tokens of kind k.
func (c *Codec) TTL(k Kind) time.Duration {
	if k == Refresh {
		return c.cfg.RefreshTTL
	}
	return c.cfg.AccessTTL
}

func (c *Codec) secret(k Kind) ([]byte, error) {
	switch k {
	case Access:
		return c.cfg.AccessSecret, nil
	case Refresh:
		return c.cfg.RefreshSecret, nil
	default:
		return nil, fmt.Errorf("unknown token kind %d", k)
	}
}

// Issue signs a new token of kind k for userID. Every token gets a random jti,
// so two tokens for the same user never compare equal.
func (c *Codec) Issue(userID string, k Kind) (string, error) {
	key, err := c.secret(k)
	if err != nil {
		return "", err
	}
	now := c.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ksuid.New().String(),
			Issuer:    c.cfg.Issuer,
			Audience:  jwt.ClaimStrings{k.String()},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(k))),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", k, err)
	}
	return signed, nil
}

// Verify checks signature, kind and expiry and returns the user id.
func (c *Codec) Verify(tokenStr string, k Kind) (string, error) {
	key, err := c.secret(k)
	if err != nil {
		return "", err
	}
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(k.String()),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.cfg.Issuer))
	}

	claims := &Claims{}
	tok, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
