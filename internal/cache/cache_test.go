package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// A nil client stands in for "Redis not configured"; every operation must
// degrade to a no-op cache miss instead of panicking.
func TestClient_NilClientFailsSafe(t *testing.T) {
	var c *Client
	ctx := context.Background()

	data, err := c.Get(ctx, "some-key")
	assert.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, c.Set(ctx, "some-key", []byte("value"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "some-key"))
}

func TestClient_GetJSONMissesOnNilClient(t *testing.T) {
	var c *Client

	var dest map[string]int
	ok, err := c.GetJSON(context.Background(), "analysis:popular-times", &dest)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, dest)
}

func TestClient_SetJSONRejectsUnmarshalableValue(t *testing.T) {
	var c *Client

	err := c.SetJSON(context.Background(), "bad-key", func() {}, time.Minute)

	assert.Error(t, err)
}
