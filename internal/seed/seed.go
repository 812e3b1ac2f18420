package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/model"
)

type FolderWriter interface {
	EnsureDefault(ctx context.Context) (*model.Folder, error)
	UpsertByName(ctx context.Context, folder *model.Folder) (*model.Folder, error)
}

type ProductWriter interface {
	UpsertByName(ctx context.Context, product *model.Product) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	ResetQuantities(ctx context.Context, quantity int) (int64, error)
}

// CountRefresher recomputes denormalized folder product counts.
type CountRefresher interface {
	RecalculateCounts(ctx context.Context) ([]model.Folder, error)
}

type Seeder struct {
	folders  FolderWriter
	products ProductWriter
	counts   CountRefresher
	logger   zerolog.Logger
}

func NewSeeder(folders FolderWriter, products ProductWriter, counts CountRefresher, logger zerolog.Logger) *Seeder {
	return &Seeder{
		folders:  folders,
		products: products,
		counts:   counts,
		logger:   logger.With().Str("component", "seed").Logger(),
	}
}

type Result struct {
	Deleted         int64
	FoldersUpserted int
	Created         int
	Updated         int
}

// Apply upserts the file's folders, then its products, matching both by name.
// With reset every existing product is removed first.
func (s *Seeder) Apply(ctx context.Context, file *File, reset bool) (*Result, error) {
	res := &Result{}

	if reset {
		n, err := s.products.DeleteAll(ctx)
		if err != nil {
			return nil, err
		}
		res.Deleted = n
		s.logger.Info().Int64("deleted", n).Msg("removed existing products")
	}

	def, err := s.folders.EnsureDefault(ctx)
	if err != nil {
		return nil, err
	}
	folderIDs := map[string]primitive.ObjectID{def.Name: def.ID}

	for _, entry := range file.Folders {
		if entry.Name == def.Name {
			continue
		}
		folder, err := s.upsertFolder(ctx, entry)
		if err != nil {
			return nil, err
		}
		folderIDs[folder.Name] = folder.ID
		res.FoldersUpserted++
	}

	for _, entry := range file.Products {
		folderName := entry.Folder
		if folderName == "" {
			folderName = def.Name
		}
		folderID, ok := folderIDs[folderName]
		if !ok {
			folder, err := s.upsertFolder(ctx, FolderEntry{Name: folderName, Order: len(folderIDs)})
			if err != nil {
				return nil, err
			}
			folderID = folder.ID
			folderIDs[folderName] = folderID
			res.FoldersUpserted++
		}

		product := entry.product(folderID)
		created, err := s.products.UpsertByName(ctx, product)
		if err != nil {
			return nil, err
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	if _, err := s.counts.RecalculateCounts(ctx); err != nil {
		return nil, fmt.Errorf("recalculate folder counts: %w", err)
	}

	s.logger.Info().
		Int("folders", res.FoldersUpserted).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Msg("seed applied")
	return res, nil
}

// ResetInventory sets every active product's quantity.
func (s *Seeder) ResetInventory(ctx context.Context, quantity int) (int64, error) {
	if quantity < 0 {
		return 0, fmt.Errorf("quantity must not be negative: %w", model.ErrInvalid)
	}
	n, err := s.products.ResetQuantities(ctx, quantity)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("products", n).Int("quantity", quantity).Msg("inventory reset")
	return n, nil
}

func (s *Seeder) upsertFolder(ctx context.Context, entry FolderEntry) (*model.Folder, error) {
	folder := &model.Folder{
		Name:        entry.Name,
		Description: entry.Description,
		Color:       entry.Color,
		Icon:        entry.Icon,
		Order:       entry.Order,
	}
	folder.ApplyDefaults()
	return s.folders.UpsertByName(ctx, folder)
}

func (e ProductEntry) product(folderID primitive.ObjectID) *model.Product {
	p := &model.Product{
		Name:        e.Name,
		Price:       e.Price,
		Quantity:    e.Quantity,
		Description: e.Description,
		Category:    e.Category,
		ProductID:   e.ProductID,
		PriceID:     e.PriceID,
		ImageURL:    e.ImageURL,
		Source:      e.Source,
		FolderID:    &folderID,
		IsActive:    true,
	}
	if p.Source == "" {
		p.Source = model.SourceLocal
	}
	p.ApplyDefaults()
	return p
}
