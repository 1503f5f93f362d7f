package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/spotlists/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

const cookieIssuer = "spotlists"

// CookieCodec signs and verifies the session cookie.
//
// The cookie value is an HS256 JWT whose subject is the session ID.
type CookieCodec struct {
	name   string
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewCookieCodec creates a [CookieCodec]. secret should come from [shared.GenerateSecret].
func NewCookieCodec(name string, secret []byte, ttl time.Duration, secure bool) *CookieCodec {
	return &CookieCodec{name: name, secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// Name returns the cookie name.
func (c *CookieCodec) Name() string {
	return c.name
}

// Encode returns a signed cookie naming sessionID.
func (c *CookieCodec) Encode(sessionID string) (*http.Cookie, error) {
	now := c.now()
	expires := now.Add(c.ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    cookieIssuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session cookie: %w", err)
	}

	return &http.Cookie{
		Name:     c.name,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Decode verifies the session cookie on r and returns the session ID it names.
//
// A missing cookie, a bad signature, or an expired token all yield [shared.ErrInvalidSession].
func (c *CookieCodec) Decode(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", shared.ErrInvalidSession, err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidSession, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", shared.ErrInvalidSession)
	}

	return claims.Subject, nil
}

// Expire returns a cookie that makes the browser drop the session cookie.
func (c *CookieCodec) Expire() *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
