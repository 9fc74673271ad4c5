package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "6000")
	t.Setenv("JWT_SECRET", "abc")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("ADMIN_EMAIL", "Root@EventDekho.in")
	t.Setenv("CORS_ORIGINS", "https://a.com, https://b.com ,")
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, "6000", cfg.Port)
	assert.Equal(t, "abc", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "root@eventdekho.in", cfg.AdminEmail)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, cfg.CORSOrigins)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.IsProduction())
}

func TestIsVirtualAdmin(t *testing.T) {
	cfg := &Config{AdminEmail: "root@x.com", AdminPassword: "pw"}
	assert.True(t, cfg.IsVirtualAdmin("ROOT@x.com", "pw"))
	assert.False(t, cfg.IsVirtualAdmin("root@x.com", "PW"))

	unset := &Config{}
	assert.False(t, unset.IsVirtualAdmin("", ""))
}
