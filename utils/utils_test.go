package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		resource string
		publicID string
		wantErr  bool
	}{
		{"versioned image", "https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg", "image", "events/abc123", false},
		{"unversioned nested video", "https://res.cloudinary.com/demo/video/upload/eventdekho/events/clip.mp4", "video", "eventdekho/events/clip", false},
		{"not an upload url", "https://example.com/a/b", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resource, id, err := extractPublicID(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.resource, resource)
			assert.Equal(t, tt.publicID, id)
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	raw, err := IssueToken("s3cret", "admin", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("s3cret", raw)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "admin", claims.Role)

	_, err = ParseToken("other", raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredToken(t *testing.T) {
	raw, err := IssueToken("s3cret", "abc", "user", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("s3cret", raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
}

func TestGenerateETagChangesWithWrites(t *testing.T) {
	id := primitive.NewObjectID()
	now := time.Now()
	assert.NotEqual(t, GenerateETag(id, now), GenerateETag(id, now.Add(time.Millisecond)))
}
