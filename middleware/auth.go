package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/eventdekho/eventdekho-api/config"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

const principalKey = "principal"

var (
	errNoToken      = errors.New("Not authorized, no token")
	errUserNotFound = errors.New("User not found")
)

// resolve turns the bearer token on the request into a Principal. Errors
// other than the sentinel auth errors are store failures.
func resolve(c *gin.Context, cfg *config.Config) (*models.Principal, error) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errNoToken
	}

	claims, err := utils.ParseToken(cfg.JWTSecret, strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	if models.OwnerRef(claims.Subject).IsSystem() {
		return models.NewSystemAdminPrincipal(cfg.AdminEmail), nil
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, utils.ErrTokenInvalid
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := cfg.Store.Users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return models.NewUserPrincipal(user), nil
}

func attach(c *gin.Context, p *models.Principal) {
	c.Set(principalKey, p)
}

// AuthMiddleware requires a valid bearer token.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := resolve(c, cfg)
		switch {
		case err == nil:
			attach(c, p)
			c.Next()
		case errors.Is(err, errNoToken), errors.Is(err, errUserNotFound):
			utils.Fail(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, utils.ErrTokenExpired):
			utils.Fail(c, http.StatusUnauthorized, "Token expired")
		case errors.Is(err, utils.ErrTokenInvalid):
			utils.Fail(c, http.StatusUnauthorized, "Not authorized, token invalid")
		default:
			utils.ServerError(c, !cfg.IsProduction(), "Authentication failed", err)
		}
	}
}

// OptionalAuth attaches a principal when the request carries a usable token
// and otherwise lets the request through anonymously.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p, err := resolve(c, cfg); err == nil {
			attach(c, p)
		}
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentPrincipal(c).IsAdmin() {
			utils.Fail(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the caller, or nil for anonymous requests.
func CurrentPrincipal(c *gin.Context) *models.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}
