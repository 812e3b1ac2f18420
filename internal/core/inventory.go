package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edvin/retailpos/internal/metrics"
	"github.com/edvin/retailpos/internal/model"
)

// InventoryService serves the register's catalog and deducts sold stock.
// Snapshot, catalog and cache are optional; nil disables that tier.
type InventoryService struct {
	products ProductRepository
	snapshot SnapshotStore
	catalog  CatalogSource
	cache    CatalogCache
	events   EventPublisher
	currency string
	logger   zerolog.Logger
}

func NewInventoryService(products ProductRepository, snapshot SnapshotStore, catalog CatalogSource, cache CatalogCache, events EventPublisher, currency string, logger zerolog.Logger) *InventoryService {
	return &InventoryService{
		products: products,
		snapshot: snapshot,
		catalog:  catalog,
		cache:    cache,
		events:   events,
		currency: currency,
		logger:   logger.With().Str("component", "inventory").Logger(),
	}
}

// Get returns the catalog from the first tier that succeeds: the snapshot
// (skipped on refresh), the live catalog, then built-in demo items. It never fails.
func (s *InventoryService) Get(ctx context.Context, refresh bool) *model.Inventory {
	inv := s.get(ctx, refresh)
	metrics.InventoryServed.WithLabelValues(inv.Source).Inc()
	return inv
}

func (s *InventoryService) get(ctx context.Context, refresh bool) *model.Inventory {
	if !refresh && s.snapshot != nil {
		items, err := s.snapshot.Load(ctx)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("snapshot unavailable, trying live catalog")
		case len(items) == 0:
			s.logger.Warn().Msg("snapshot is empty, trying live catalog")
		default:
			return &model.Inventory{Source: model.InventorySourceSnapshot, Items: items}
		}
	}

	if s.catalog != nil {
		items, err := s.liveCatalog(ctx, refresh)
		if err == nil {
			return &model.Inventory{Source: model.InventorySourceGHL, Items: items}
		}
		s.logger.Warn().Err(err).Msg("live catalog unavailable, serving demo inventory")
	} else {
		s.logger.Warn().Msg("live catalog not configured, serving demo inventory")
	}

	return &model.Inventory{Source: model.InventorySourceDemo, Items: DemoInventory(s.currency)}
}

func (s *InventoryService) liveCatalog(ctx context.Context, bypassCache bool) ([]model.InventoryItem, error) {
	if s.cache != nil && !bypassCache {
		items, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		} else if ok {
			return items, nil
		}
	}

	items, err := s.catalog.ListInventory(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, items); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return items, nil
}

// Update deducts sold quantities. The local stock decrement is atomic and
// refuses to oversell; the snapshot and the live catalog are updated best effort.
func (s *InventoryService) Update(ctx context.Context, sold []model.SoldItem) (*model.InventoryUpdateResult, error) {
	if len(sold) == 0 {
		return nil, fmt.Errorf("no items to update: %w", model.ErrInvalid)
	}

	result := &model.InventoryUpdateResult{
		Updated: []model.StockUpdateResult{},
		Failed:  []model.StockUpdateResult{},
	}

	snapshot := s.loadSnapshotIndex(ctx)
	snapshotDirty := false

	for _, item := range sold {
		if item.Quantity <= 0 {
			result.Failed = append(result.Failed, model.StockUpdateResult{ProductID: item.ProductID, Error: "quantity must be positive"})
			continue
		}

		remaining := -1
		productID, priceID := item.ProductID, item.PriceID

		product, err := s.decrementLocal(ctx, item)
		metrics.StockDecrements.WithLabelValues(stockOutcome(err)).Inc()
		switch {
		case err == nil:
			remaining = product.Quantity
			if product.ProductID != "" {
				productID = product.ProductID
			}
			if priceID == "" {
				priceID = product.PriceID
			}
		case errors.Is(err, model.ErrNotFound):
			// Not tracked locally; the snapshot may still know it.
		default:
			if errors.Is(err, model.ErrInsufficientStock) {
				result.InsufficientStock = true
			}
			result.Failed = append(result.Failed, model.StockUpdateResult{ProductID: item.ProductID, Error: err.Error()})
			continue
		}

		if snap, ok := snapshot.items[productID]; ok {
			snap.Quantity = max(0, snap.Quantity-item.Quantity)
			snapshotDirty = true
			if remaining < 0 {
				remaining = snap.Quantity
			}
			if priceID == "" {
				priceID = snap.PriceID
			}
		}

		if remaining < 0 {
			result.Failed = append(result.Failed, model.StockUpdateResult{ProductID: item.ProductID, Error: model.ErrNotFound.Error()})
			continue
		}

		s.pushAvailableQuantity(ctx, productID, priceID, remaining)
		result.Updated = append(result.Updated, model.StockUpdateResult{ProductID: item.ProductID, Remaining: remaining})
	}

	if snapshotDirty {
		if err := s.snapshot.Save(ctx, snapshot.list); err != nil {
			s.logger.Warn().Err(err).Msg("failed to rewrite inventory snapshot")
		}
	}
	if s.cache != nil && len(result.Updated) > 0 {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate catalog cache")
		}
	}

	s.logger.Info().Int("updated", len(result.Updated)).Int("failed", len(result.Failed)).Msg("inventory updated")
	s.events.Publish(model.EventInventoryUpdated, result)
	return result, nil
}

// decrementLocal matches the sold item by external product ID first, then by
// local document ID.
func (s *InventoryService) decrementLocal(ctx context.Context, item model.SoldItem) (*model.Product, error) {
	id := item.ProductID
	product, err := s.products.GetByExternalID(ctx, item.ProductID)
	switch {
	case err == nil:
		id = product.ID.Hex()
	case !errors.Is(err, model.ErrNotFound):
		return nil, err
	}

	product, err = s.products.DecrementQuantity(ctx, id, item.Quantity)
	if errors.Is(err, model.ErrInvalid) {
		return nil, fmt.Errorf("product %s: %w", item.ProductID, model.ErrNotFound)
	}
	return product, err
}

func (s *InventoryService) pushAvailableQuantity(ctx context.Context, productID, priceID string, quantity int) {
	if s.catalog == nil || priceID == "" {
		return
	}
	if err := s.catalog.UpdateAvailableQuantity(ctx, productID, priceID, quantity); err != nil {
		s.logger.Warn().Err(err).
			Str("product_id", productID).
			Str("price_id", priceID).
			Msg("failed to push available quantity to catalog")
	}
}

type snapshotIndex struct {
	list  []model.InventoryItem
	items map[string]*model.InventoryItem
}

func (s *InventoryService) loadSnapshotIndex(ctx context.Context) snapshotIndex {
	idx := snapshotIndex{items: map[string]*model.InventoryItem{}}
	if s.snapshot == nil {
		return idx
	}
	items, err := s.snapshot.Load(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("failed to load inventory snapshot")
		}
		return idx
	}
	idx.list = items
	for i := range idx.list {
		idx.items[idx.list[i].ID] = &idx.list[i]
	}
	return idx
}

// SyncSnapshot fetches the live catalog and overwrites the snapshot with it.
func (s *InventoryService) SyncSnapshot(ctx context.Context) (int, error) {
	if s.catalog == nil {
		return 0, fmt.Errorf("live catalog: %w", model.ErrNotConfigured)
	}
	if s.snapshot == nil {
		return 0, fmt.Errorf("snapshot store: %w", model.ErrNotConfigured)
	}

	items, err := s.catalog.ListInventory(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch live catalog: %w", err)
	}
	if err := s.snapshot.Save(ctx, items); err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, items); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}

	s.logger.Info().Int("items", len(items)).Msg("inventory snapshot synced")
	return len(items), nil
}

// DemoInventory is served when neither the snapshot nor the live catalog is available.
func DemoInventory(currency string) []model.InventoryItem {
	items := []model.InventoryItem{
		{ID: "demo-espresso", PriceID: "demo-espresso-price", Name: "Espresso", Description: "Double shot", Price: 3.00, Quantity: 50},
		{ID: "demo-latte", PriceID: "demo-latte-price", Name: "Latte", Description: "12 oz", Price: 4.50, Quantity: 50},
		{ID: "demo-cold-brew", PriceID: "demo-cold-brew-price", Name: "Cold Brew", Description: "16 oz", Price: 4.75, Quantity: 30},
		{ID: "demo-croissant", PriceID: "demo-croissant-price", Name: "Butter Croissant", Price: 3.25, Quantity: 20},
		{ID: "demo-muffin", PriceID: "demo-muffin-price", Name: "Blueberry Muffin", Price: 2.95, Quantity: 20},
		{ID: "demo-beans", PriceID: "demo-beans-price", Name: "House Blend Beans", Description: "12 oz bag", Price: 14.00, Quantity: 12},
	}
	for i := range items {
		items[i].Currency = currency
	}
	return items
}
