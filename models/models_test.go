package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOwnerRef(t *testing.T) {
	id := primitive.NewObjectID()

	oid, ok := RefForUser(id).ObjectID()
	assert.True(t, ok)
	assert.Equal(t, id, oid)

	_, ok = SystemAdminRef.ObjectID()
	assert.False(t, ok)
	assert.True(t, SystemAdminRef.IsSystem())

	_, ok = OwnerRef("not-hex").ObjectID()
	assert.False(t, ok)
	assert.True(t, OwnerRef("").IsMissing())
}

func TestPrincipal(t *testing.T) {
	admin := NewSystemAdminPrincipal("admin@x.test")
	assert.Equal(t, SystemAdminRef, admin.Ref())
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.Verified())

	u := NewUserPrincipal(&User{ID: primitive.NewObjectID(), Role: RoleOrganizer})
	assert.False(t, u.IsAdmin())
	assert.False(t, u.Verified())
	assert.True(t, u.Owns(u.Ref()))

	promoted := NewUserPrincipal(&User{ID: primitive.NewObjectID(), Role: RoleAdmin})
	assert.True(t, promoted.Verified(), "admin role implies verified")

	var anon *Principal
	assert.False(t, anon.IsAdmin())
	assert.False(t, anon.Verified())
	assert.False(t, anon.Owns(SystemAdminRef))
}

func TestPromotionWindows(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	ad := SponsorAd{IsActive: true, StartDate: now.AddDate(0, 0, 5), EndDate: now.AddDate(0, 0, 10)}
	assert.True(t, ad.Running(now), "upcoming ads are served")
	ad.EndDate = now.Add(-time.Second)
	assert.False(t, ad.Running(now))

	expired := now.Add(-time.Hour)
	assert.True(t, Announcement{IsActive: true}.Live(now))
	assert.False(t, Announcement{IsActive: true, ExpiresAt: &expired}.Live(now))
	assert.False(t, Announcement{IsActive: false}.Live(now))
}

func TestResetTokenExpiry(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	tok := PasswordResetToken{ExpiresAt: now.Add(ResetTokenTTL)}
	assert.False(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(ResetTokenTTL)))
}
