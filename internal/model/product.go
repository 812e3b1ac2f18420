package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product sources.
const (
	SourceMongoDB = "mongodb"
	SourceGHL     = "ghl"
	SourceManual  = "manual"
	SourceLocal   = "local"
)

const DefaultProductType = "PHYSICAL"

// ValidSource reports whether s is a known product source.
func ValidSource(s string) bool {
	switch s {
	case SourceMongoDB, SourceGHL, SourceManual, SourceLocal:
		return true
	}
	return false
}

type Product struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	Price       float64             `json:"price" bson:"price"`
	Quantity    int                 `json:"quantity" bson:"quantity"`
	Description string              `json:"description" bson:"description"`
	ProductID   string              `json:"product_id,omitempty" bson:"productId,omitempty"`
	PriceID     string              `json:"price_id,omitempty" bson:"priceId,omitempty"`
	Source      string              `json:"source" bson:"source"`
	ProductType string              `json:"product_type" bson:"productType"`
	Category    string              `json:"category,omitempty" bson:"category,omitempty"`
	FolderID    *primitive.ObjectID `json:"folder_id,omitempty" bson:"folderId,omitempty"`
	ImageURL    string              `json:"image_url,omitempty" bson:"imageUrl,omitempty"`
	IsActive    bool                `json:"is_active" bson:"isActive"`
	CreatedAt   time.Time           `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updatedAt"`
}

// ApplyDefaults fills in zero-valued fields with their defaults.
func (p *Product) ApplyDefaults() {
	if p.Source == "" {
		p.Source = SourceManual
	}
	if p.ProductType == "" {
		p.ProductType = DefaultProductType
	}
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	ProductID   *string  `json:"product_id"`
	PriceID     *string  `json:"price_id"`
	Source      *string  `json:"source" validate:"omitempty,oneof=mongodb ghl manual local"`
	ProductType *string  `json:"product_type"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"image_url"`
	IsActive    *bool    `json:"is_active"`
}

// Empty reports whether the update changes nothing.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Price == nil && u.Quantity == nil && u.Description == nil &&
		u.ProductID == nil && u.PriceID == nil && u.Source == nil && u.ProductType == nil &&
		u.Category == nil && u.ImageURL == nil && u.IsActive == nil
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	FolderID        *primitive.ObjectID
	Source          string
	Category        string
	Search          string
	IncludeInactive bool
}
