package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edvin/retailpos/internal/model"
)

const productCollectionName = "products"

type ProductStore struct {
	collection *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{collection: db.Collection(productCollectionName)}
}

func (s *ProductStore) Create(ctx context.Context, product *model.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := s.collection.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product %q: %w", product.Name, model.ErrConflict)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid}, "product "+id)
}

// GetByExternalID returns the active product linked to the given GHL product ID.
func (s *ProductStore) GetByExternalID(ctx context.Context, productID string) (*model.Product, error) {
	return s.findOne(ctx, bson.M{"productId": productID, "isActive": true}, "product with external id "+productID)
}

func (s *ProductStore) findOne(ctx context.Context, filter bson.M, what string) (*model.Product, error) {
	var product model.Product
	if err := s.collection.FindOne(ctx, filter).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", what, model.ErrNotFound)
		}
		return nil, fmt.Errorf("find %s: %w", what, err)
	}
	return &product, nil
}

// List returns products matching the filter, ordered by name, plus the total match count.
// A zero limit returns every match.
func (s *ProductStore) List(ctx context.Context, f model.ProductFilter, limit, offset int64) ([]model.Product, int64, error) {
	filter := productFilter(f)

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	if offset > 0 {
		findOptions.SetSkip(offset)
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, total, nil
}

func productFilter(f model.ProductFilter) bson.M {
	filter := bson.M{}
	if !f.IncludeInactive {
		filter["isActive"] = true
	}
	if f.FolderID != nil {
		filter["folderId"] = *f.FolderID
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return filter
}

// Update applies a partial update and returns the updated product.
func (s *ProductStore) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.ProductID != nil {
		set["productId"] = *upd.ProductID
	}
	if upd.PriceID != nil {
		set["priceId"] = *upd.PriceID
	}
	if upd.Source != nil {
		set["source"] = *upd.Source
	}
	if upd.ProductType != nil {
		set["productType"] = *upd.ProductType
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.ImageURL != nil {
		set["imageUrl"] = *upd.ImageURL
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}
	return s.updateOne(ctx, id, bson.M{"$set": set})
}

// SetFolder moves a single product into the given folder.
func (s *ProductStore) SetFolder(ctx context.Context, id string, folderID primitive.ObjectID) (*model.Product, error) {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{"folderId": folderID, "updatedAt": time.Now()}})
}

func (s *ProductStore) updateOne(ctx context.Context, id string, update bson.M) (*model.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product model.Product
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, model.ErrNotFound)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("product name: %w", model.ErrConflict)
		}
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return &product, nil
}

func (s *ProductStore) SetActive(ctx context.Context, id string, active bool) error {
	_, err := s.updateOne(ctx, id, bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}})
	return err
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// DecrementQuantity atomically subtracts n from an active product's quantity,
// refusing to go below zero. It returns the updated product.
func (s *ProductStore) DecrementQuantity(ctx context.Context, id string, n int) (*model.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid, "isActive": true, "quantity": bson.M{"$gte": n}}
	update := bson.M{
		"$inc": bson.M{"quantity": -n},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product model.Product
	err = s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("decrement product %s: %w", id, err)
	}

	// Distinguish a missing or deleted product from one without enough stock.
	current, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if !current.IsActive {
		return nil, fmt.Errorf("product %s: %w", id, model.ErrNotFound)
	}
	return nil, fmt.Errorf("product %s: %w", id, model.ErrInsufficientStock)
}

// ReassignFolder moves every product in one folder to another and returns how
// many active products moved. Inactive products move too so none point at a
// deleted folder.
func (s *ProductStore) ReassignFolder(ctx context.Context, from, to primitive.ObjectID) (int64, error) {
	set := bson.M{"$set": bson.M{"folderId": to, "updatedAt": time.Now()}}

	result, err := s.collection.UpdateMany(ctx, bson.M{"folderId": from, "isActive": true}, set)
	if err != nil {
		return 0, fmt.Errorf("reassign products from folder %s: %w", from.Hex(), err)
	}
	if _, err := s.collection.UpdateMany(ctx, bson.M{"folderId": from}, set); err != nil {
		return 0, fmt.Errorf("reassign inactive products from folder %s: %w", from.Hex(), err)
	}
	return result.ModifiedCount, nil
}

// DeactivateByFolder soft-deletes every active product in the folder.
func (s *ProductStore) DeactivateByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error) {
	result, err := s.collection.UpdateMany(ctx,
		bson.M{"folderId": folderID, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("deactivate products in folder %s: %w", folderID.Hex(), err)
	}
	return result.ModifiedCount, nil
}

type folderCount struct {
	FolderID primitive.ObjectID `bson:"_id"`
	Count    int64              `bson:"count"`
}

// CountActiveByFolder returns the number of active products per folder.
func (s *ProductStore) CountActiveByFolder(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true, "folderId": bson.M{"$exists": true}}}},
		{{Key: "$group", Value: bson.M{"_id": "$folderId", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count products by folder: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []folderCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode folder counts: %w", err)
	}

	counts := make(map[primitive.ObjectID]int64, len(rows))
	for _, r := range rows {
		counts[r.FolderID] = r.Count
	}
	return counts, nil
}

// ResetQuantities sets the quantity of every active product.
func (s *ProductStore) ResetQuantities(ctx context.Context, quantity int) (int64, error) {
	result, err := s.collection.UpdateMany(ctx,
		bson.M{"isActive": true},
		bson.M{"$set": bson.M{"quantity": quantity, "updatedAt": time.Now()}})
	if err != nil {
		return 0, fmt.Errorf("reset quantities: %w", err)
	}
	return result.ModifiedCount, nil
}

// UpsertByName inserts the product or overwrites the existing one with the same
// name. It reports whether a new document was created.
func (s *ProductStore) UpsertByName(ctx context.Context, product *model.Product) (bool, error) {
	now := time.Now()
	set := bson.M{
		"price":       product.Price,
		"quantity":    product.Quantity,
		"description": product.Description,
		"source":      product.Source,
		"productType": product.ProductType,
		"category":    product.Category,
		"imageUrl":    product.ImageURL,
		"isActive":    product.IsActive,
		"updatedAt":   now,
	}
	if product.ProductID != "" {
		set["productId"] = product.ProductID
	}
	if product.PriceID != "" {
		set["priceId"] = product.PriceID
	}
	if product.FolderID != nil {
		set["folderId"] = *product.FolderID
	}

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"name": product.Name},
		bson.M{"$set": set, "$setOnInsert": bson.M{"createdAt": now}},
		options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert product %q: %w", product.Name, err)
	}
	return result.UpsertedCount > 0, nil
}

// DeleteAll removes every product document.
func (s *ProductStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}
	return result.DeletedCount, nil
}
