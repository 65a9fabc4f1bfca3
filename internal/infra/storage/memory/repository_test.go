package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBookingService/pkg/ttlcache"
)

func TestNewRepository_InvalidSize(t *testing.T) {
	_, err := NewRepository(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRepository(10)
	require.NoError(t, err)

	got, err := repo.Get(ctx, "barbers:all")
	require.NoError(t, err)
	assert.Nil(t, got)

	fetchedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Set(ctx, "barbers:all", ttlcache.Entry{Payload: []byte(`["anna"]`), FetchedAt: fetchedAt}))

	got, err = repo.Get(ctx, "barbers:all")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `["anna"]`, string(got.Payload))
	assert.True(t, fetchedAt.Equal(got.FetchedAt))

	require.NoError(t, repo.Delete(ctx, "barbers:all"))
	got, err = repo.Get(ctx, "barbers:all")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRepository(10)
	require.NoError(t, err)

	for _, key := range []string{"occupied:b1:2026-03-02", "occupied:b2:2026-03-02", "barbers:all"} {
		require.NoError(t, repo.Set(ctx, key, ttlcache.Entry{Payload: []byte("[]")}))
	}

	require.NoError(t, repo.DeletePrefix(ctx, "occupied:"))

	assert.Equal(t, 1, repo.Len())
	got, err := repo.Get(ctx, "barbers:all")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRepository_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRepository(2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Set(ctx, fmt.Sprintf("occupied:b%d", i), ttlcache.Entry{Payload: []byte("[]")}))
	}

	assert.Equal(t, 2, repo.Len())
	got, err := repo.Get(ctx, "occupied:b0")
	require.NoError(t, err)
	assert.Nil(t, got)
}
