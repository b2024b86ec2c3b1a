// Package auth issues and verifies the signed credentials that identify API callers.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Reason explains why a credential was not accepted.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissing
	ReasonMalformed
	ReasonInvalid
	ReasonExpired
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonMissing:
		return "missing"
	case ReasonMalformed:
		return "malformed"
	case ReasonInvalid:
		return "invalid"
	case ReasonExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Verification is the outcome of checking a credential: an identity on
// success, a failure reason otherwise.
type Verification struct {
	UserID uint
	Reason Reason
}

// OK reports whether the credential was accepted.
func (v Verification) OK() bool {
	return v.Reason == ReasonNone
}

// Identity is the user reference embedded in every credential.
type Identity struct {
	ID string `json:"id"`
}

// Claims is the payload of an issued credential.
type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 credentials.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer creates an Issuer. An empty issuer or audience disables that check.
func NewIssuer(secret, issuer, audience string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a signed credential for the given user.
func (i *Issuer) Issue(userID uint) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := i.now()
	id := strconv.FormatUint(uint64(userID), 10)
	claims := Claims{
		User: Identity{ID: id},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks a credential and reports the identity it carries.
func (i *Issuer) Verify(tokenString string) Verification {
	if tokenString == "" {
		return Verification{Reason: ReasonMissing}
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, opts...)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Verification{Reason: ReasonExpired}
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Verification{Reason: ReasonMalformed}
	case err != nil || !token.Valid:
		return Verification{Reason: ReasonInvalid}
	}

	userID, err := strconv.ParseUint(claims.User.ID, 10, 32)
	if err != nil || userID == 0 {
		return Verification{Reason: ReasonInvalid}
	}
	return Verification{UserID: uint(userID)}
}
