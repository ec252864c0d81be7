package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-social-escrow/internal/api/auth"
	apierrors "github.com/feral-file/ff-social-escrow/internal/api/shared/errors"
	"github.com/feral-file/ff-social-escrow/internal/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	AUTH_TYPE_KEY    contextKey = "auth_type"
	AUTH_SUBJECT_KEY contextKey = "auth_subject"
	JWT_CLAIMS_KEY   contextKey = "jwt_claims"
)

const (
	AUTH_TYPE_SESSION = "session"
	AUTH_TYPE_APIKEY  = "apikey"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret string // HMAC secret of wallet session tokens
	APIKeys   []string
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success     bool
	AuthType    string // "session" or "apikey"
	Claims      *auth.SessionClaims
	AuthSubject string
	Error       error
}

// Authenticate validates the Authorization header and returns the authentication result.
// "Bearer <token>" carries a wallet session, "ApiKey <key>" an operator key.
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	result := AuthResult{
		Success: false,
	}

	if authHeader == "" {
		result.Error = errors.New("missing Authorization header")
		return result
	}

	// Parse the authorization header
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		result.Error = errors.New("invalid Authorization header format")
		return result
	}

	authType := strings.ToLower(parts[0])
	credentials := strings.TrimSpace(parts[1])

	switch authType {
	case "bearer":
		claims, err := auth.ParseSessionToken(cfg.JWTSecret, credentials)
		if err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = AUTH_TYPE_SESSION
		result.Claims = claims
		result.AuthSubject = claims.Subject

	case "apikey":
		if err := validateAPIKey(credentials, cfg.APIKeys); err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = AUTH_TYPE_APIKEY

	default:
		result.Error = fmt.Errorf("unsupported authorization type: %s", authType)
		return result
	}

	return result
}

// SessionAuth requires a wallet session token
func SessionAuth(cfg AuthConfig) gin.HandlerFunc {
	return authMiddleware(cfg, AUTH_TYPE_SESSION)
}

// APIKeyAuth requires an operator API key
func APIKeyAuth(cfg AuthConfig) gin.HandlerFunc {
	return authMiddleware(cfg, AUTH_TYPE_APIKEY)
}

func authMiddleware(cfg AuthConfig, required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authenticate(c.GetHeader("Authorization"), cfg)

		if !result.Success {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError("Authentication failed", result.Error.Error())
			c.AbortWithStatusJSON(apiErr.StatusCode(), apiErr)
			return
		}

		if result.AuthType != required {
			apiErr := apierrors.NewForbiddenError("Insufficient credentials", fmt.Sprintf("%s authentication required", required))
			c.AbortWithStatusJSON(apiErr.StatusCode(), apiErr)
			return
		}

		// Store authentication info in context
		c.Set(string(AUTH_TYPE_KEY), result.AuthType)
		if result.Claims != nil {
			c.Set(string(JWT_CLAIMS_KEY), result.Claims)
		}
		if result.AuthSubject != "" {
			c.Set(string(AUTH_SUBJECT_KEY), result.AuthSubject)
		}

		logger.DebugCtx(c.Request.Context(), "Authentication successful",
			zap.String("path", c.Request.URL.Path),
			zap.String("auth_type", result.AuthType),
			zap.String("subject", result.AuthSubject),
		)

		c.Next()
	}
}

// SessionWallet returns the wallet of the authenticated session
func SessionWallet(c *gin.Context) (string, bool) {
	subject := c.GetString(string(AUTH_SUBJECT_KEY))
	return subject, subject != ""
}

// validateAPIKey validates an API key
func validateAPIKey(apiKey string, validKeys []string) error {
	configured := false
	for _, key := range validKeys {
		if key == "" {
			continue
		}
		configured = true
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			return nil
		}
	}
	if !configured {
		return errors.New("no API keys configured")
	}
	return errors.New("invalid API key")
}
