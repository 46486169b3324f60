package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryChallengeStore_TakeConsumes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChallengeStore()

	require.NoError(t, store.Put(ctx, "c1", 135, time.Minute))

	angle, ok := store.Take(ctx, "c1")
	assert.True(t, ok)
	assert.Equal(t, 135, angle)

	_, ok = store.Take(ctx, "c1")
	assert.False(t, ok, "a challenge is single-use")

	_, ok = store.Take(ctx, "unknown")
	assert.False(t, ok)
}

func TestMemoryChallengeStore_Expired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChallengeStore()

	require.NoError(t, store.Put(ctx, "c1", 90, -time.Second))
	_, ok := store.Take(ctx, "c1")
	assert.False(t, ok)
}

func TestVerifyRotate_ConsumesChallenge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChallengeStore()
	svc := &captchaServiceImpl{store: store, ttl: time.Minute, padding: 8}

	require.NoError(t, store.Put(ctx, "c1", 120, time.Minute))
	svc.VerifyRotate(ctx, "c1", 37)

	_, ok := store.Take(ctx, "c1")
	assert.False(t, ok, "any attempt consumes the challenge")

	assert.False(t, svc.VerifyRotate(ctx, "c1", 120), "a consumed challenge never verifies")
	assert.False(t, svc.VerifyRotate(ctx, "missing", 0))
}

func TestRotateBackgrounds(t *testing.T) {
	imgs := generateRotateBackgrounds(0, 64)
	require.Len(t, imgs, 1)
	assert.Equal(t, 64, imgs[0].Bounds().Dx())
	assert.Equal(t, 64, imgs[0].Bounds().Dy())

	_, _, _, alpha := imgs[0].At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), alpha)
}
