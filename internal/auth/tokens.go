package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"gradehub/internal/shared/config"
	"gradehub/internal/shared/errs"
)

// TokenKind discriminates access from refresh tokens inside the signed
// claims, so a leaked refresh token can never be replayed as an access
// token even though both are signed with the same secret.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// SubjectClaim carries the subject identity nested under "user". Both
// issuance and verification agree on this exact shape.
type SubjectClaim struct {
	ID string `json:"id"`
}

// Claims is the typed claims structure for every token this service signs.
type Claims struct {
	User SubjectClaim `json:"user"`
	Kind TokenKind    `json:"kind"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed, expiring tokens. It has no side
// effects: the output is a pure function of (subject, kind, secret, clock).
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenCodec(cfg config.AuthConfig) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessExpiresIn,
		refreshTTL: cfg.RefreshExpiresIn,
		now:        time.Now,
	}
}

// Issue signs a token of the given kind for subjectID. TTL is 15 minutes
// for access and 1 year for refresh by default, both from config.
func (tc *TokenCodec) Issue(kind TokenKind, subjectID string) (string, error) {
	ttl := tc.accessTTL
	if kind == TokenKindRefresh {
		ttl = tc.refreshTTL
	}

	now := tc.now()
	claims := Claims{
		User: SubjectClaim{ID: subjectID},
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "gradehub",
			Subject:   subjectID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify checks signature, expiry and kind, and returns the subject id.
// Every failure mode collapses into ErrInvalidToken; callers are
// responsible for presence checks before calling.
func (tc *TokenCodec) Verify(kind TokenKind, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrInvalidToken
		}
		return tc.secret, nil
	})
	if err != nil {
		return "", errs.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", errs.ErrInvalidToken
	}
	if claims.Kind != kind || claims.User.ID == "" {
		return "", errs.ErrInvalidToken
	}

	return claims.User.ID, nil
}
