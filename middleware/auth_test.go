package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/eventdekho/eventdekho-api/config"
	models "github.com/eventdekho/eventdekho-api/models"
	"github.com/eventdekho/eventdekho-api/store/memstore"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

func newTestRouter(cfg *config.Config, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			c.JSON(http.StatusOK, gin.H{"ref": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ref": string(p.Ref()), "role": p.Role()})
	})
	r.GET("/probe", handlers...)
	return r
}

func probe(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "s3cret", AdminEmail: "admin@x.test", Store: memstore.New()}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	u := &models.User{Name: "U", Email: "u@x.test", Role: models.RoleUser}
	require.NoError(t, cfg.Store.Users.Create(context.Background(), u))

	valid, err := utils.IssueToken(cfg.JWTSecret, u.ID.Hex(), u.Role, time.Hour)
	require.NoError(t, err)
	expired, err := utils.IssueToken(cfg.JWTSecret, u.ID.Hex(), u.Role, -time.Minute)
	require.NoError(t, err)
	system, err := utils.IssueToken(cfg.JWTSecret, string(models.SystemAdminRef), models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	foreign, err := utils.IssueToken("other-secret", u.ID.Hex(), u.Role, time.Hour)
	require.NoError(t, err)
	ghost, err := utils.IssueToken(cfg.JWTSecret, "0123456789abcdef01234567", models.RoleUser, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		code    int
		message string
		ref     string
	}{
		{"no token", "", http.StatusUnauthorized, "Not authorized, no token", ""},
		{"expired", expired, http.StatusUnauthorized, "Token expired", ""},
		{"wrong signature", foreign, http.StatusUnauthorized, "Not authorized, token invalid", ""},
		{"deleted user", ghost, http.StatusUnauthorized, "User not found", ""},
		{"user", valid, http.StatusOK, "", u.ID.Hex()},
		{"virtual admin", system, http.StatusOK, "", string(models.SystemAdminRef)},
	}

	r := newTestRouter(cfg, AuthMiddleware(cfg))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := probe(r, tt.token)
			assert.Equal(t, tt.code, w.Code)
			if tt.message != "" {
				assert.Contains(t, w.Body.String(), tt.message)
			}
			if tt.ref != "" {
				assert.Contains(t, w.Body.String(), tt.ref)
			}
		})
	}
}

func TestOptionalAuthFallsThrough(t *testing.T) {
	cfg := testConfig()
	r := newTestRouter(cfg, OptionalAuth(cfg))

	w := probe(r, "not-a-jwt")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ref":""}`, w.Body.String())
}

func TestAdminOnly(t *testing.T) {
	cfg := testConfig()
	u := &models.User{Name: "U", Email: "u@x.test", Role: models.RoleOrganizer, Verified: true}
	require.NoError(t, cfg.Store.Users.Create(context.Background(), u))
	userToken, err := utils.IssueToken(cfg.JWTSecret, u.ID.Hex(), u.Role, time.Hour)
	require.NoError(t, err)
	adminToken, err := utils.IssueToken(cfg.JWTSecret, string(models.SystemAdminRef), models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	r := newTestRouter(cfg, AuthMiddleware(cfg), AdminOnly())
	assert.Equal(t, http.StatusForbidden, probe(r, userToken).Code)
	assert.Equal(t, http.StatusOK, probe(r, adminToken).Code)
}
