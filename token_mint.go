package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// SessionClaims is the claim set minted for a validated login.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// TokenMinter signs session tokens for validated logins. It is boundary
// glue: the engine itself never sees or interprets tokens.
type TokenMinter struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	audience   jwt.ClaimStrings
}

// NewTokenMinter creates a minter with the given signing key and TTL.
func NewTokenMinter(signingKey []byte, ttl time.Duration, issuer string, audience []string) *TokenMinter {
	return &TokenMinter{
		signingKey: signingKey,
		ttl:        ttl,
		issuer:     issuer,
		audience:   audience,
	}
}

// Mint signs an HS256 token carrying the validated session identity.
func (tm *TokenMinter) Mint(session ValidatedSession) (string, error) {
	if tm == nil || len(tm.signingKey) == 0 {
		return "", goerrors.New("token minter requires a signing key", goerrors.CategoryBadInput)
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   session.ID,
			Audience:  tm.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
		Email: session.Email,
		Roles: session.Roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(tm.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}
