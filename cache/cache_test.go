package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsAlwaysMiss(t *testing.T) {
	c := New("", "", 0)
	assert.Nil(t, c)

	ctx := context.Background()
	c.SetJSON(ctx, KeyActiveAds, []string{"a"}, time.Minute)
	var out []string
	assert.False(t, c.GetJSON(ctx, KeyActiveAds, &out))
	c.Delete(ctx, KeyActiveAds)
	assert.NoError(t, c.Close())
}
