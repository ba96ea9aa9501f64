package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogentity "github.com/sebkasanzew/comoi/internal/catalog/entity"
	"github.com/sebkasanzew/comoi/internal/store"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, store.DriverMemory, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, store.DriverMemory, b.Driver)
	assert.NoError(t, b.Ping(ctx))

	require.NoError(t, b.Catalog.InsertVendor(ctx, &catalogentity.Vendor{ID: "v1", Name: "Cô Ba"}))
	_, err = b.Catalog.GetVendor(ctx, "v1")
	require.NoError(t, err)

	require.NoError(t, b.Reset(ctx))
	_, err = b.Catalog.GetVendor(ctx, "v1")
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), store.Driver("sqlite"), zap.NewNop().Sugar())
	assert.Error(t, err)
}
