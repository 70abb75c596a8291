// Package gateway stands in for the managed API gateway authorizer when
// the API runs outside of it. It verifies bearer tokens and produces the
// same claims context the managed authorizer forwards.
package gateway

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrMissingSubject = errors.New("token has no subject")

// Claims mirrors the identity claims of an identity-provider ID token.
type Claims struct {
	Email           string `json:"email,omitempty"`
	Username        string `json:"username,omitempty"`
	CognitoUsername string `json:"cognito:username,omitempty"`
	jwt.RegisteredClaims
}

type TokenParams struct {
	Subject  string
	Email    string
	Username string
}

type Authorizer interface {
	// IssueToken signs a token for the given subject. It is meant for
	// local development; production tokens come from the identity
	// provider.
	IssueToken(params TokenParams) (string, time.Time, error)

	// Authorize verifies the token and returns the authorizer context
	// forwarded to the handlers, i.e. {"claims": {...}}.
	Authorize(token string) (map[string]any, error)
}

type authorizerImpl struct {
	issuer     string
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthorizer(issuer string, signingKey []byte, tokenTTL time.Duration) Authorizer {
	return &authorizerImpl{
		issuer:     issuer,
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
	}
}

func (a *authorizerImpl) IssueToken(params TokenParams) (string, time.Time, error) {
	if params.Subject == "" {
		return "", time.Time{}, ErrMissingSubject
	}

	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(a.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:           params.Email,
		CognitoUsername: params.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    a.issuer,
			Subject:   params.Subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(a.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (a *authorizerImpl) Authorize(token string) (map[string]any, error) {
	claims, err := a.parseToken(token)
	if err != nil {
		return nil, err
	}

	// Subject checks are left to the handlers, as behind the managed
	// gateway.
	forwarded := map[string]any{
		"iss": claims.Issuer,
	}
	if claims.Subject != "" {
		forwarded["sub"] = claims.Subject
	}
	if claims.Email != "" {
		forwarded["email"] = claims.Email
	}
	if claims.Username != "" {
		forwarded["username"] = claims.Username
	}
	if claims.CognitoUsername != "" {
		forwarded["cognito:username"] = claims.CognitoUsername
	}
	return map[string]any{"claims": forwarded}, nil
}

func (a *authorizerImpl) parseToken(token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.signingKey, nil
		},
		jwt.WithIssuer(a.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token is expired: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}
	return claims, nil
}
