// Package auth implements the credential primitives: HMAC-signed access and
// refresh tokens, and bcrypt password hashing.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avpetrov/authcore/internal/logging"
	"github.com/avpetrov/authcore/internal/server/models"
)

// Session is the identity reconstructed from a verified access token.
type Session struct {
	UserID     string
	Email      string
	IsVerified bool
	LoginDate  time.Time
}

// RefreshClaims is the identity reconstructed from a verified refresh token.
type RefreshClaims struct {
	UserID string
}

// sessionClaims is the access-token claim set: registered claims plus the
// user's email and verification flag.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

// refreshClaims carries the subject only.
type refreshClaims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies both token types. Access and refresh tokens use
// distinct secrets so one leaked key cannot mint the other kind. Verification
// is a pure function of the token and the configured secret; nothing is
// persisted.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        logging.Logger
}

func NewCodec(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, logger logging.Logger) *Codec {
	return &Codec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		logger:        logger,
	}
}

// IssueAccessToken signs a short-lived token carrying the user's session
// identity.
func (c *Codec) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
		Email:      user.Email(),
		IsVerified: user.IsVerified(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.accessSecret)
}

// IssueRefreshToken signs a longer-lived token carrying the subject only.
func (c *Codec) IssueRefreshToken(user *models.User) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.refreshSecret)
}

// DecodeSession verifies an access token and rebuilds the session. Any
// failure (bad signature, malformed payload, expiry) yields nil; the cause
// goes to the log only, so callers cannot distinguish why.
func (c *Codec) DecodeSession(ctx context.Context, token string) *Session {
	claims := &sessionClaims{}
	if !c.verify(ctx, token, claims, c.accessSecret) {
		return nil
	}
	if claims.Subject == "" || claims.Email == "" || claims.IssuedAt == nil {
		c.logger.Error(ctx, "invalid token", "reason", "missing claims")
		return nil
	}
	return &Session{
		UserID:     claims.Subject,
		Email:      claims.Email,
		IsVerified: claims.IsVerified,
		LoginDate:  claims.IssuedAt.Time,
	}
}

// DecodeRefreshClaims verifies a refresh token; same contract as
// DecodeSession.
func (c *Codec) DecodeRefreshClaims(ctx context.Context, token string) *RefreshClaims {
	claims := &refreshClaims{}
	if !c.verify(ctx, token, claims, c.refreshSecret) {
		return nil
	}
	if claims.Subject == "" {
		c.logger.Error(ctx, "invalid refresh token", "reason", "missing subject")
		return nil
	}
	return &RefreshClaims{UserID: claims.Subject}
}

func (c *Codec) verify(ctx context.Context, token string, claims jwt.Claims, secret []byte) bool {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		// Expired gets its own message; the caller sees the same nil either way.
		if errors.Is(err, jwt.ErrTokenExpired) {
			c.logger.Error(ctx, "token expired", "error", err)
		} else {
			c.logger.Error(ctx, "invalid token", "error", err)
		}
		return false
	}
	if !parsed.Valid {
		c.logger.Error(ctx, "invalid token")
		return false
	}
	return true
}
