package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

func TestLiquidityPoolStore_InsertAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLiquidityPoolStore(pool)
	ctx := context.Background()
	tokenID := uuid.NewString()

	p := &domain.LiquidityPool{
		ID:           uuid.NewString(),
		TokenID:      tokenID,
		Dex:          "raydium",
		PairAddress:  "pair-1",
		LiquidityUsd: 120000,
		CreatedAt:    time.Now().UnixMilli(),
	}
	require.NoError(t, store.Insert(ctx, p))
	assert.ErrorIs(t, store.Insert(ctx, p), storage.ErrDuplicateKey)

	pools, err := store.ListByToken(ctx, tokenID)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, "raydium", pools[0].Dex)
	assert.Equal(t, 120000.0, pools[0].LiquidityUsd)
}

func TestLiquidityPoolStore_TotalLiquidityUsd(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLiquidityPoolStore(pool)
	ctx := context.Background()
	tokenID := uuid.NewString()

	for _, liq := range []float64{100000, 50000} {
		err := store.Insert(ctx, &domain.LiquidityPool{
			ID:           uuid.NewString(),
			TokenID:      tokenID,
			Dex:          "orca",
			LiquidityUsd: liq,
			CreatedAt:    time.Now().UnixMilli(),
		})
		require.NoError(t, err)
	}

	total, err := store.TotalLiquidityUsd(ctx, tokenID)
	require.NoError(t, err)
	assert.Equal(t, 150000.0, total)

	// No pools sums to zero rather than erroring.
	total, err = store.TotalLiquidityUsd(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Zero(t, total)
}
