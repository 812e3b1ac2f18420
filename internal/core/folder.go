package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/model"
)

type FolderService struct {
	folders  FolderRepository
	products ProductRepository
	events   EventPublisher
	logger   zerolog.Logger
}

func NewFolderService(folders FolderRepository, products ProductRepository, events EventPublisher, logger zerolog.Logger) *FolderService {
	return &FolderService{
		folders:  folders,
		products: products,
		events:   events,
		logger:   logger.With().Str("component", "folders").Logger(),
	}
}

// EnsureDefaultFolders makes sure the Unassigned folder exists.
func (s *FolderService) EnsureDefaultFolders(ctx context.Context) (*model.Folder, error) {
	folder, err := s.folders.EnsureDefault(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("folder_id", folder.ID.Hex()).Msg("default folder ready")
	return folder, nil
}

// DefaultFolder returns the Unassigned folder, creating it if needed.
func (s *FolderService) DefaultFolder(ctx context.Context) (*model.Folder, error) {
	folder, err := s.folders.GetDefault(ctx)
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	return s.EnsureDefaultFolders(ctx)
}

// List returns the active folders, optionally recomputing product counts first.
func (s *FolderService) List(ctx context.Context, refreshCounts bool) ([]model.Folder, error) {
	if refreshCounts {
		return s.RecalculateCounts(ctx)
	}
	return s.folders.List(ctx, false)
}

// Get returns an active folder. Soft-deleted folders are reported as not found.
func (s *FolderService) Get(ctx context.Context, id string) (*model.Folder, error) {
	folder, err := s.folders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !folder.IsActive {
		return nil, fmt.Errorf("folder %s: %w", id, model.ErrNotFound)
	}
	return folder, nil
}

func (s *FolderService) ListProducts(ctx context.Context, id string, includeInactive bool, limit, offset int64) ([]model.Product, int64, error) {
	folder, err := s.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return s.products.List(ctx, model.ProductFilter{FolderID: &folder.ID, IncludeInactive: includeInactive}, limit, offset)
}

func (s *FolderService) Create(ctx context.Context, folder *model.Folder) error {
	folder.ApplyDefaults()
	folder.IsActive = true
	folder.IsDefault = false
	folder.ProductCount = 0

	if err := s.folders.Create(ctx, folder); err != nil {
		return err
	}
	s.publish("created", folder)
	return nil
}

// Update applies a partial update. The default folder cannot be renamed.
func (s *FolderService) Update(ctx context.Context, id string, upd model.FolderUpdate) (*model.Folder, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("no fields to update: %w", model.ErrInvalid)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsDefault && upd.Name != nil && *upd.Name != current.Name {
		return nil, fmt.Errorf("rename %q: %w", current.Name, model.ErrDefaultFolder)
	}

	folder, err := s.folders.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.publish("updated", folder)
	return folder, nil
}

// Delete soft-deletes a folder. Its products are moved to the default folder,
// or soft-deleted when deleteProducts is set.
func (s *FolderService) Delete(ctx context.Context, id string, deleteProducts bool) (*model.FolderDeleteResult, error) {
	folder, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.IsDefault {
		return nil, fmt.Errorf("delete %q: %w", folder.Name, model.ErrDefaultFolder)
	}

	result := &model.FolderDeleteResult{FolderID: folder.ID.Hex()}
	if deleteProducts {
		n, err := s.products.DeactivateByFolder(ctx, folder.ID)
		if err != nil {
			return nil, err
		}
		result.Deleted = n
	} else {
		def, err := s.DefaultFolder(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve default folder: %w", err)
		}
		n, err := s.products.ReassignFolder(ctx, folder.ID, def.ID)
		if err != nil {
			return nil, err
		}
		result.Moved = n
	}

	if err := s.folders.SoftDelete(ctx, folder.ID); err != nil {
		return nil, err
	}

	s.refreshCounts(ctx)
	s.logger.Info().
		Str("folder_id", result.FolderID).
		Int64("moved", result.Moved).
		Int64("deleted", result.Deleted).
		Msg("folder deleted")
	s.publish("deleted", result)
	return result, nil
}

// Reorder sets each folder's order to its index in ids.
func (s *FolderService) Reorder(ctx context.Context, ids []string) error {
	oids := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("invalid folder id %q: %w", id, model.ErrInvalid)
		}
		if seen[oid] {
			return fmt.Errorf("duplicate folder id %q: %w", id, model.ErrInvalid)
		}
		seen[oid] = true
		oids = append(oids, oid)
	}

	for i, oid := range oids {
		if err := s.folders.SetOrder(ctx, oid, i); err != nil {
			return err
		}
	}
	s.publish("reordered", ids)
	return nil
}

// RecalculateCounts recomputes every active folder's product count from the
// products collection and returns the refreshed folders.
func (s *FolderService) RecalculateCounts(ctx context.Context) ([]model.Folder, error) {
	counts, err := s.products.CountActiveByFolder(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := s.folders.List(ctx, false)
	if err != nil {
		return nil, err
	}

	for i := range folders {
		n := counts[folders[i].ID]
		if folders[i].ProductCount == n {
			continue
		}
		if err := s.folders.SetProductCount(ctx, folders[i].ID, n); err != nil {
			return nil, err
		}
		folders[i].ProductCount = n
	}
	return folders, nil
}

// refreshCounts recalculates counts after a mutation. Counts are denormalized,
// so a failure is logged and not returned.
func (s *FolderService) refreshCounts(ctx context.Context) {
	if _, err := s.RecalculateCounts(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to recalculate folder product counts")
	}
}

func (s *FolderService) publish(action string, data any) {
	s.events.Publish(model.EventFolderChanged, map[string]any{"action": action, "folder": data})
}
