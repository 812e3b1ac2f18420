package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edvin/retailpos/internal/model"
)

const folderCollectionName = "folders"

type FolderStore struct {
	collection *mongo.Collection
}

func NewFolderStore(db *mongo.Database) *FolderStore {
	return &FolderStore{collection: db.Collection(folderCollectionName)}
}

func (s *FolderStore) Create(ctx context.Context, folder *model.Folder) error {
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	result, err := s.collection.InsertOne(ctx, folder)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("folder %q: %w", folder.Name, model.ErrConflict)
		}
		return fmt.Errorf("insert folder: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		folder.ID = oid
	}
	return nil
}

func (s *FolderStore) GetByID(ctx context.Context, id string) (*model.Folder, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid}, "folder "+id)
}

// GetDefault returns the active default folder.
func (s *FolderStore) GetDefault(ctx context.Context) (*model.Folder, error) {
	return s.findOne(ctx, bson.M{"isDefault": true, "isActive": true}, "default folder")
}

func (s *FolderStore) findOne(ctx context.Context, filter bson.M, what string) (*model.Folder, error) {
	var folder model.Folder
	if err := s.collection.FindOne(ctx, filter).Decode(&folder); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", what, model.ErrNotFound)
		}
		return nil, fmt.Errorf("find %s: %w", what, err)
	}
	return &folder, nil
}

// List returns folders ordered by their display order, then name.
func (s *FolderStore) List(ctx context.Context, includeInactive bool) ([]model.Folder, error) {
	filter := bson.M{}
	if !includeInactive {
		filter["isActive"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer cursor.Close(ctx)

	var folders []model.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("decode folders: %w", err)
	}
	if folders == nil {
		folders = []model.Folder{}
	}
	return folders, nil
}

// Update applies a partial update and returns the updated folder.
func (s *FolderStore) Update(ctx context.Context, id string, upd model.FolderUpdate) (*model.Folder, error) {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Color != nil {
		set["color"] = *upd.Color
	}
	if upd.Icon != nil {
		set["icon"] = *upd.Icon
	}
	if upd.Order != nil {
		set["order"] = *upd.Order
	}

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var folder model.Folder
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&folder)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("folder %s: %w", id, model.ErrNotFound)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("folder name: %w", model.ErrConflict)
		}
		return nil, fmt.Errorf("update folder %s: %w", id, err)
	}
	return &folder, nil
}

// SoftDelete marks the folder inactive.
func (s *FolderStore) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": false, "productCount": 0, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("soft delete folder %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("folder %s: %w", id.Hex(), model.ErrNotFound)
	}
	return nil
}

func (s *FolderStore) SetProductCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"productCount": count}})
	if err != nil {
		return fmt.Errorf("set product count for folder %s: %w", id.Hex(), err)
	}
	return nil
}

// SetOrder sets the display position of an active folder.
func (s *FolderStore) SetOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isActive": true},
		bson.M{"$set": bson.M{"order": order, "updatedAt": time.Now()}})
	if err != nil {
		return fmt.Errorf("set order for folder %s: %w", id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("folder %s: %w", id.Hex(), model.ErrNotFound)
	}
	return nil
}

// UpsertByName inserts the folder or refreshes the cosmetic fields of the
// existing one with the same name, reactivating it. It returns the stored folder.
func (s *FolderStore) UpsertByName(ctx context.Context, folder *model.Folder) (*model.Folder, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"description": folder.Description,
			"color":       folder.Color,
			"icon":        folder.Icon,
			"order":       folder.Order,
			"isActive":    true,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"isDefault":    folder.IsDefault,
			"productCount": int64(0),
			"createdAt":    now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.Folder
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"name": folder.Name}, update, opts).Decode(&stored)
	if err != nil {
		return nil, fmt.Errorf("upsert folder %q: %w", folder.Name, err)
	}
	return &stored, nil
}

// EnsureDefault creates the Unassigned folder when missing and makes sure it is
// active and flagged as the default.
func (s *FolderStore) EnsureDefault(ctx context.Context) (*model.Folder, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"isDefault": true,
			"isActive":  true,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"description":  "Products without a folder",
			"color":        model.DefaultFolderColor,
			"icon":         model.DefaultFolderIcon,
			"order":        0,
			"productCount": int64(0),
			"createdAt":    now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var folder model.Folder
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"name": model.UnassignedFolderName}, update, opts).Decode(&folder)
	if err != nil {
		return nil, fmt.Errorf("ensure default folder: %w", err)
	}
	return &folder, nil
}
