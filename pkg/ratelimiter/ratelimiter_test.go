package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketCapacity(t *testing.T) {
	tb := NewTokenBucket(2, 1)

	assert.True(t, tb.TakeToken())
	assert.True(t, tb.TakeToken())
	assert.False(t, tb.TakeToken())
}

func TestTokenBucketNormalisesInvalidValues(t *testing.T) {
	tb := NewTokenBucket(0, -3)

	assert.Equal(t, int64(1), tb.capacity)
	assert.Equal(t, int64(1), tb.refillRate)
}

func TestWaitHonoursContext(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	assert.NoError(t, tb.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)
}
