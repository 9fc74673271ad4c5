package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/eventdekho/eventdekho-api/models"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-10-14", time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), true},
		{"2026-10-14T09:30:00Z", time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC), true},
		{"2026-10-14 09:30", time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC), true},
		{"14/10/2026", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, validDate(""))
	assert.True(t, validDate("2026-02-28"))
	assert.False(t, validDate("2026-02-30"))
	assert.False(t, validDate("tomorrow"))
}

func TestCanManage(t *testing.T) {
	owner := &models.User{Role: models.RoleOrganizer}
	p := models.NewUserPrincipal(owner)

	assert.True(t, canManage(p, p.Ref()))
	assert.False(t, canManage(p, models.SystemAdminRef))
	assert.True(t, canManage(models.NewSystemAdminPrincipal("admin@x.test"), "0123456789abcdef01234567"))
	assert.False(t, canManage(nil, models.SystemAdminRef))
}

func TestListTTL(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, publicListTTL, listTTL(now, nil))
	assert.Equal(t, publicListTTL, listTTL(now, []time.Time{now.Add(time.Hour)}))
	assert.Equal(t, 20*time.Second, listTTL(now, []time.Time{now.Add(time.Hour), now.Add(20 * time.Second)}))
	assert.Zero(t, listTTL(now, []time.Time{now}), "items ending now are not cached")
}
