package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/model"
)

var liveItems = []model.InventoryItem{
	{ID: "ghl-latte", PriceID: "price-latte", Name: "Latte", Price: 4.5, Quantity: 8, Currency: "usd"},
}

func TestInventoryService_Get_Snapshot(t *testing.T) {
	snap := &mockSnapshot{}
	catalog := &mockCatalog{}
	svc := NewInventoryService(&mockProductRepo{}, snap, catalog, nil, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	snap.On("Load", ctx).Return(liveItems, nil)

	inv := svc.Get(ctx, false)
	assert.Equal(t, model.InventorySourceSnapshot, inv.Source)
	assert.Equal(t, liveItems, inv.Items)
	catalog.AssertNotCalled(t, "ListInventory", mock.Anything)
}

func TestInventoryService_Get_FallsBackToLive(t *testing.T) {
	snap := &mockSnapshot{}
	catalog := &mockCatalog{}
	svc := NewInventoryService(&mockProductRepo{}, snap, catalog, nil, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	snap.On("Load", ctx).Return(nil, fmt.Errorf("snapshot: %w", model.ErrNotFound))
	catalog.On("ListInventory", ctx).Return(liveItems, nil)

	inv := svc.Get(ctx, false)
	assert.Equal(t, model.InventorySourceGHL, inv.Source)
	assert.Len(t, inv.Items, 1)
}

func TestInventoryService_Get_EmptySnapshotFallsThrough(t *testing.T) {
	snap := &mockSnapshot{}
	catalog := &mockCatalog{}
	svc := NewInventoryService(&mockProductRepo{}, snap, catalog, nil, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	snap.On("Load", ctx).Return([]model.InventoryItem{}, nil)
	catalog.On("ListInventory", ctx).Return(liveItems, nil)

	assert.Equal(t, model.InventorySourceGHL, svc.Get(ctx, false).Source)
}

func TestInventoryService_Get_FallsBackToDemo(t *testing.T) {
	snap := &mockSnapshot{}
	catalog := &mockCatalog{}
	svc := NewInventoryService(&mockProductRepo{}, snap, catalog, nil, nopPublisher{}, "eur", zerolog.Nop())
	ctx := context.Background()

	snap.On("Load", ctx).Return(nil, errors.New("corrupt json"))
	catalog.On("ListInventory", ctx).Return(nil, errors.New("unauthorized"))

	inv := svc.Get(ctx, false)
	assert.Equal(t, model.InventorySourceDemo, inv.Source)
	require.NotEmpty(t, inv.Items)
	assert.Equal(t, "eur", inv.Items[0].Currency)
}

func TestInventoryService_Get_NothingConfigured(t *testing.T) {
	svc := NewInventoryService(&mockProductRepo{}, nil, nil, nil, nopPublisher{}, "usd", zerolog.Nop())

	inv := svc.Get(context.Background(), false)
	assert.Equal(t, model.InventorySourceDemo, inv.Source)
}

func TestInventoryService_Get_RefreshSkipsSnapshotAndCache(t *testing.T) {
	snap := &mockSnapshot{}
	catalog := &mockCatalog{}
	cache := &mockCache{}
	svc := NewInventoryService(&mockProductRepo{}, snap, catalog, cache, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	catalog.On("ListInventory", ctx).Return(liveItems, nil)
	cache.On("Set", ctx, liveItems).Return(nil)

	inv := svc.Get(ctx, true)
	assert.Equal(t, model.InventorySourceGHL, inv.Source)
	snap.AssertNotCalled(t, "Load", mock.Anything)
	cache.AssertNotCalled(t, "Get", mock.Anything)
	cache.AssertExpectations(t)
}

func TestInventoryService_Get_CacheHit(t *testing.T) {
	catalog := &mockCatalog{}
	cache := &mockCache{}
	svc := NewInventoryService(&mockProductRepo{}, nil, catalog, cache, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	cache.On("Get", ctx).Return(liveItems, true, nil)

	inv := svc.Get(ctx, false)
	assert.Equal(t, model.InventorySourceGHL, inv.Source)
	catalog.AssertNotCalled(t, "ListInventory", mock.Anything)
}

func TestInventoryService_Update_DecrementsEverywhere(t *testing.T) {
	products := &mockProductRepo{}
	snap := &mockSnapshot{}
	catalog := &mockCatalog{}
	pub := &recordingPublisher{}
	svc := NewInventoryService(products, snap, catalog, nil, pub, "usd", zerolog.Nop())
	ctx := context.Background()

	local := &model.Product{ID: primitive.NewObjectID(), Name: "Latte", ProductID: "ghl-latte", PriceID: "price-latte", Quantity: 8}
	after := *local
	after.Quantity = 6

	snapshotItems := []model.InventoryItem{
		{ID: "ghl-latte", PriceID: "price-latte", Name: "Latte", Quantity: 8},
		{ID: "ghl-scone", PriceID: "price-scone", Name: "Scone", Quantity: 1},
	}
	snap.On("Load", ctx).Return(snapshotItems, nil)
	products.On("GetByExternalID", ctx, "ghl-latte").Return(local, nil)
	products.On("DecrementQuantity", ctx, local.ID.Hex(), 2).Return(&after, nil)
	catalog.On("UpdateAvailableQuantity", ctx, "ghl-latte", "price-latte", 6).Return(nil)
	snap.On("Save", ctx, mock.MatchedBy(func(items []model.InventoryItem) bool {
		return len(items) == 2 && items[0].Quantity == 6 && items[1].Quantity == 1
	})).Return(nil)

	result, err := svc.Update(ctx, []model.SoldItem{{ProductID: "ghl-latte", Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, 6, result.Updated[0].Remaining)
	assert.Empty(t, result.Failed)
	assert.False(t, result.InsufficientStock)
	assert.Equal(t, []string{model.EventInventoryUpdated}, pub.types())
	catalog.AssertExpectations(t)
	snap.AssertExpectations(t)
}

func TestInventoryService_Update_FallsBackToDocumentID(t *testing.T) {
	products := &mockProductRepo{}
	svc := NewInventoryService(products, nil, nil, nil, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	id := primitive.NewObjectID()
	products.On("GetByExternalID", ctx, id.Hex()).Return(nil, fmt.Errorf("product: %w", model.ErrNotFound))
	products.On("DecrementQuantity", ctx, id.Hex(), 1).Return(&model.Product{ID: id, Quantity: 4}, nil)

	result, err := svc.Update(ctx, []model.SoldItem{{ProductID: id.Hex(), Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, 4, result.Updated[0].Remaining)
}

func TestInventoryService_Update_InsufficientStock(t *testing.T) {
	products := &mockProductRepo{}
	catalog := &mockCatalog{}
	svc := NewInventoryService(products, nil, catalog, nil, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	local := &model.Product{ID: primitive.NewObjectID(), ProductID: "ghl-latte", Quantity: 1}
	products.On("GetByExternalID", ctx, "ghl-latte").Return(local, nil)
	products.On("DecrementQuantity", ctx, local.ID.Hex(), 5).Return(nil, fmt.Errorf("product: %w", model.ErrInsufficientStock))

	result, err := svc.Update(ctx, []model.SoldItem{{ProductID: "ghl-latte", Quantity: 5}})
	require.NoError(t, err)
	assert.True(t, result.InsufficientStock)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Error, "insufficient stock")
	catalog.AssertNotCalled(t, "UpdateAvailableQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService_Update_SnapshotOnlyItem(t *testing.T) {
	products := &mockProductRepo{}
	snap := &mockSnapshot{}
	catalog := &mockCatalog{}
	svc := NewInventoryService(products, snap, catalog, nil, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	snap.On("Load", ctx).Return([]model.InventoryItem{{ID: "ghl-scone", PriceID: "price-scone", Quantity: 3}}, nil)
	products.On("GetByExternalID", ctx, "ghl-scone").Return(nil, fmt.Errorf("product: %w", model.ErrNotFound))
	products.On("DecrementQuantity", ctx, "ghl-scone", 1).Return(nil, fmt.Errorf("invalid id: %w", model.ErrInvalid))
	catalog.On("UpdateAvailableQuantity", ctx, "ghl-scone", "price-scone", 2).Return(errors.New("upstream 500"))
	snap.On("Save", ctx, mock.Anything).Return(nil)

	result, err := svc.Update(ctx, []model.SoldItem{{ProductID: "ghl-scone", Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, 2, result.Updated[0].Remaining)
	assert.Empty(t, result.Failed)
}

func TestInventoryService_Update_UnknownItem(t *testing.T) {
	products := &mockProductRepo{}
	svc := NewInventoryService(products, nil, nil, nil, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	products.On("GetByExternalID", ctx, "nope").Return(nil, fmt.Errorf("product: %w", model.ErrNotFound))
	products.On("DecrementQuantity", ctx, "nope", 1).Return(nil, fmt.Errorf("invalid id: %w", model.ErrInvalid))

	result, err := svc.Update(ctx, []model.SoldItem{{ProductID: "nope", Quantity: 1}})
	require.NoError(t, err)
	assert.Empty(t, result.Updated)
	require.Len(t, result.Failed, 1)
	assert.False(t, result.InsufficientStock)
}

func TestInventoryService_Update_Empty(t *testing.T) {
	svc := NewInventoryService(&mockProductRepo{}, nil, nil, nil, nopPublisher{}, "usd", zerolog.Nop())

	_, err := svc.Update(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestInventoryService_SyncSnapshot(t *testing.T) {
	snap := &mockSnapshot{}
	catalog := &mockCatalog{}
	svc := NewInventoryService(&mockProductRepo{}, snap, catalog, nil, nopPublisher{}, "usd", zerolog.Nop())
	ctx := context.Background()

	catalog.On("ListInventory", ctx).Return(liveItems, nil)
	snap.On("Save", ctx, liveItems).Return(nil)

	n, err := svc.SyncSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	snap.AssertExpectations(t)
}

func TestInventoryService_SyncSnapshot_NotConfigured(t *testing.T) {
	svc := NewInventoryService(&mockProductRepo{}, &mockSnapshot{}, nil, nil, nopPublisher{}, "usd", zerolog.Nop())

	_, err := svc.SyncSnapshot(context.Background())
	assert.ErrorIs(t, err, model.ErrNotConfigured)
}
