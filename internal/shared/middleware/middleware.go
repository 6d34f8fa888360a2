package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"gradehub/internal/auth"
	"gradehub/internal/shared/errs"
	"gradehub/internal/shared/utils/response"
	"gradehub/internal/users"
	"gradehub/pkg/logger"
)

// identityKey is the gin context key the verified identity is attached to.
const identityKey = "identity"

// Directory resolves a token subject to a live identity. The auth
// repository satisfies it; tests substitute fakes.
type Directory interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// OwnerResolver maps a resource id to the id of the identity that owns it.
type OwnerResolver interface {
	OwnerOf(ctx context.Context, resourceID string) (string, error)
}

// Auth builds the per-route authorization chain. Authenticated must come
// first on every protected route; the remaining checks assume an identity
// is already attached.
type Auth struct {
	codec     *auth.TokenCodec
	directory Directory
	log       *logger.Logger
}

func NewAuth(codec *auth.TokenCodec, directory Directory) *Auth {
	return &Auth{
		codec:     codec,
		directory: directory,
		log:       logger.GetDefault(),
	}
}

// Authenticated extracts the bearer access token, verifies it and loads
// the identity from the directory. On success the identity is attached to
// the request context for the rest of the chain.
func (a *Auth) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			a.log.LogAuthFailure(c.Request.Context(), "missing token", c.ClientIP())
			response.AbortWithError(c, errs.ErrMissingToken)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			a.log.LogAuthFailure(c.Request.Context(), "malformed authorization header", c.ClientIP())
			response.AbortWithError(c, errs.ErrMissingToken)
			return
		}

		subjectID, err := a.codec.Verify(auth.TokenKindAccess, parts[1])
		if err != nil {
			a.log.LogAuthFailure(c.Request.Context(), "invalid token", c.ClientIP())
			response.AbortWithError(c, errs.ErrInvalidToken)
			return
		}

		user, err := a.directory.FindByID(c.Request.Context(), subjectID)
		if err != nil {
			if errors.Is(err, errs.ErrUnknownIdentity) {
				a.log.LogAuthFailure(c.Request.Context(), "unknown identity", c.ClientIP())
				response.AbortWithError(c, errs.ErrUnknownIdentity)
				return
			}
			response.AbortWithError(c, err)
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// RequireRole short-circuits with Forbidden unless the attached identity
// has the given role. Must run after Authenticated.
func RequireRole(role users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			response.AbortWithError(c, errs.ErrMissingToken)
			return
		}
		if user.Role != role {
			response.AbortWithError(c, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}

// OwnsResource resolves the owner of the resource named by the route
// parameter and denies the request unless it is the caller. Must run
// after Authenticated.
func OwnsResource(param string, resolver OwnerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			response.AbortWithError(c, errs.ErrMissingToken)
			return
		}

		ownerID, err := resolver.OwnerOf(c.Request.Context(), c.Param(param))
		if err != nil {
			response.AbortWithError(c, err)
			return
		}
		if ownerID != user.ID.String() {
			response.AbortWithError(c, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}

// BindCallerID copies the caller's id into a named context field so
// downstream handlers can use it without re-deriving it. Must run after
// Authenticated and RequireRole.
func BindCallerID(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			response.AbortWithError(c, errs.ErrMissingToken)
			return
		}
		c.Set(field, user.ID.String())
		c.Next()
	}
}

// Identity returns the verified identity attached by Authenticated.
func Identity(c *gin.Context) (*users.User, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*users.User)
	return user, ok
}

// CallerID returns a caller id previously bound with BindCallerID.
func CallerID(c *gin.Context, field string) (string, bool) {
	value, exists := c.Get(field)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
