package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/slfantasy/fantasy-manager/internal/domain/user"
	"github.com/slfantasy/fantasy-manager/internal/usecase"
)

// Claims carried by session tokens issued by the login service.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		leeway: 30 * time.Second,
	}
}

func (v *JWTVerifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}
	if len(v.secret) == 0 {
		return user.Principal{}, fmt.Errorf("%w: token verifier is not configured", usecase.ErrDependencyUnavailable)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid token", usecase.ErrUnauthorized)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no email claim", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID: strings.TrimSpace(claims.Subject),
		Email:  email,
	}, nil
}

// Sign issues a token for the given principal. Used by tooling and tests.
func (v *JWTVerifier) Sign(p user.Principal, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
