package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edvin/retailpos/internal/metrics"
	"github.com/edvin/retailpos/internal/model"
)

type ProductService struct {
	products ProductRepository
	folders  *FolderService
	events   EventPublisher
	logger   zerolog.Logger
}

func NewProductService(products ProductRepository, folders *FolderService, events EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		products: products,
		folders:  folders,
		events:   events,
		logger:   logger.With().Str("component", "products").Logger(),
	}
}

// Create stores a new active product. Products without a folder go to the
// default folder; an unknown folder is rejected.
func (s *ProductService) Create(ctx context.Context, product *model.Product) error {
	product.ApplyDefaults()
	product.IsActive = true

	if product.FolderID == nil {
		def, err := s.folders.DefaultFolder(ctx)
		if err != nil {
			return fmt.Errorf("resolve default folder: %w", err)
		}
		product.FolderID = &def.ID
	} else if err := s.checkFolder(ctx, product.FolderID.Hex()); err != nil {
		return err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return err
	}

	s.folders.refreshCounts(ctx)
	s.publish("created", product)
	return nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f model.ProductFilter, limit, offset int64) ([]model.Product, int64, error) {
	return s.products.List(ctx, f, limit, offset)
}

func (s *ProductService) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("no fields to update: %w", model.ErrInvalid)
	}

	product, err := s.products.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	if upd.IsActive != nil {
		s.folders.refreshCounts(ctx)
	}
	s.publish("updated", product)
	return product, nil
}

// MoveToFolder reassigns a single product to another active folder.
func (s *ProductService) MoveToFolder(ctx context.Context, id, folderID string) (*model.Product, error) {
	folder, err := s.folders.Get(ctx, folderID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("folder %s does not exist: %w", folderID, model.ErrInvalid)
		}
		return nil, err
	}

	product, err := s.products.SetFolder(ctx, id, folder.ID)
	if err != nil {
		return nil, err
	}

	s.folders.refreshCounts(ctx)
	s.publish("moved", product)
	return product, nil
}

// Sell atomically deducts quantity from the product's stock.
func (s *ProductService) Sell(ctx context.Context, id string, quantity int) (*model.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", model.ErrInvalid)
	}

	product, err := s.products.DecrementQuantity(ctx, id, quantity)
	if err != nil {
		metrics.StockDecrements.WithLabelValues(stockOutcome(err)).Inc()
		return nil, err
	}
	metrics.StockDecrements.WithLabelValues("ok").Inc()

	s.logger.Info().Str("product_id", id).Int("sold", quantity).Int("remaining", product.Quantity).Msg("product sold")
	s.publish("sold", product)
	return product, nil
}

// Delete soft-deletes the product, or removes it when hard is set.
func (s *ProductService) Delete(ctx context.Context, id string, hard bool) error {
	var err error
	if hard {
		err = s.products.Delete(ctx, id)
	} else {
		err = s.products.SetActive(ctx, id, false)
	}
	if err != nil {
		return err
	}

	s.folders.refreshCounts(ctx)
	s.publish("deleted", map[string]any{"id": id, "hard": hard})
	return nil
}

func (s *ProductService) checkFolder(ctx context.Context, folderID string) error {
	if _, err := s.folders.Get(ctx, folderID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("folder %s does not exist: %w", folderID, model.ErrInvalid)
		}
		return err
	}
	return nil
}

func (s *ProductService) publish(action string, data any) {
	s.events.Publish(model.EventProductChanged, map[string]any{"action": action, "product": data})
}

func stockOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrInsufficientStock):
		return "insufficient"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
