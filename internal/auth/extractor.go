// Package auth derives the caller identity from the authorizer context the
// API gateway attaches to each request.
package auth

import (
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/models"
)

const (
	CodeMissingAuthorizer = "MISSING_AUTHORIZER"
	CodeMissingClaims     = "MISSING_CLAIMS"
	CodeMissingUserID     = "MISSING_USER_ID"
	CodeExtractionFailed  = "AUTH_EXTRACTION_ERROR"
)

const (
	claimsKey            = "claims"
	claimSubject         = "sub"
	claimEmail           = "email"
	claimCognitoUsername = "cognito:username"
	claimUsername        = "username"
)

// AuthError is the failure side of Extract.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AuthError) Error() string {
	return e.Message
}

type Extractor interface {
	// Extract returns the identity of the caller or an AuthError,
	// never both. authorizer is the gateway authorizer context; nil
	// means the request passed through no authorizer.
	Extract(authorizer map[string]any) (models.Identity, *AuthError)
}

type extractorImpl struct {
	logger                  zerolog.Logger
	missingAuthorizerPolicy string
}

// NewExtractor returns an Extractor applying policy (one of
// config.MissingAuthorizerReject or config.MissingAuthorizerAnonymous)
// to requests without an authorizer context.
func NewExtractor(logger zerolog.Logger, policy string) Extractor {
	return &extractorImpl{
		logger:                  logger,
		missingAuthorizerPolicy: policy,
	}
}

func (e *extractorImpl) Extract(authorizer map[string]any) (models.Identity, *AuthError) {
	if authorizer == nil {
		if e.missingAuthorizerPolicy == config.MissingAuthorizerAnonymous {
			e.logger.Debug().Msg("no authorizer context, using anonymous identity")
			return models.Identity{
				UserID:   models.AnonymousUserID,
				Username: models.AnonymousUserID,
			}, nil
		}
		return models.Identity{}, e.fail(CodeMissingAuthorizer,
			"No authorization context found in request")
	}

	rawClaims, ok := authorizer[claimsKey]
	if !ok || rawClaims == nil {
		return models.Identity{}, e.fail(CodeMissingClaims,
			"No user claims found in authorization context")
	}

	claims, ok := toStringMap(rawClaims)
	if !ok {
		return models.Identity{}, e.fail(CodeExtractionFailed,
			"Failed to extract user context from request")
	}

	userID := claims[claimSubject]
	if userID == "" {
		return models.Identity{}, e.fail(CodeMissingUserID,
			"User ID not found in JWT claims")
	}

	username := claims[claimCognitoUsername]
	if username == "" {
		username = claims[claimUsername]
	}

	return models.Identity{
		UserID:   userID,
		Email:    claims[claimEmail],
		Username: username,
	}, nil
}

func (e *extractorImpl) fail(code, message string) *AuthError {
	e.logger.Warn().
		Str("code", code).
		Msg(message)
	return &AuthError{
		Code:    code,
		Message: message,
	}
}

// toStringMap keeps only the string-valued claims. Gateways deliver
// claims either as decoded JSON objects or as flat string maps.
func toStringMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, raw := range m {
			if s, ok := raw.(string); ok {
				out[k] = s
			}
		}
		return out, true
	default:
		return nil, false
	}
}
