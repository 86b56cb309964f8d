// Package middleware provides the HTTP authentication layer: Bearer
// token extraction, validation through the gateway, and typed principal
// propagation into request contexts.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skubra/cleargate/errors"
	"github.com/skubra/cleargate/logger"
	"github.com/skubra/cleargate/policy"
)

// Validator validates a raw bearer token into a principal. Implemented
// by gateway.Gateway.
type Validator interface {
	Validate(ctx context.Context, raw string) (policy.Principal, error)
}

// AuthConfig configures the authentication middleware.
type AuthConfig struct {
	Validator Validator

	// SkipPaths are URL path prefixes that bypass authentication.
	// Requests on them proceed with no principal in context.
	SkipPaths []string

	// Anonymous, when set, is substituted for requests that carry no or
	// invalid credentials instead of rejecting them. Substitution is
	// always this explicit configuration, never a silent default.
	Anonymous *policy.Principal

	Logger *logger.Logger
}

// Auth returns a Gin middleware that validates Bearer tokens and stores
// the resulting principal in the request context. Failures are rendered
// as the typed error's HTTP status with its machine-readable code.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("middleware")

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			if cfg.Anonymous != nil {
				c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), *cfg.Anonymous))
				c.Next()
				return
			}
			abortWithError(c, err)
			return
		}

		p, err := cfg.Validator.Validate(c.Request.Context(), raw)
		if err != nil {
			log.Warn("token rejected", logger.Fields(
				logger.FieldReason, string(apperrors.CodeOf(err)),
			))
			if cfg.Anonymous != nil {
				c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), *cfg.Anonymous))
				c.Next()
				return
			}
			abortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.Unauthorized("Authorization header required.")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.Unauthorized("Authorization header must be a Bearer token.")
	}
	return parts[1], nil
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	body := gin.H{"code": string(apperrors.ErrCodeUnauthorized), "error": "Authentication required."}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus != 0 {
			status = appErr.HTTPStatus
		}
		body = gin.H{"code": string(appErr.Code), "error": appErr.Message}
	}
	c.AbortWithStatusJSON(status, body)
}
