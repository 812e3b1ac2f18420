package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnassignedFolderName is the default folder that receives orphaned products.
const UnassignedFolderName = "Unassigned"

const (
	DefaultFolderColor = "#6B7280"
	DefaultFolderIcon  = "folder"
)

type Folder struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Color        string             `json:"color" bson:"color"`
	Icon         string             `json:"icon" bson:"icon"`
	Order        int                `json:"order" bson:"order"`
	IsDefault    bool               `json:"is_default" bson:"isDefault"`
	ProductCount int64              `json:"product_count" bson:"productCount"`
	IsActive     bool               `json:"is_active" bson:"isActive"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

func (f *Folder) ApplyDefaults() {
	if f.Color == "" {
		f.Color = DefaultFolderColor
	}
	if f.Icon == "" {
		f.Icon = DefaultFolderIcon
	}
}

// FolderUpdate is a partial update; nil fields are left unchanged.
type FolderUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
}

func (u FolderUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Color == nil && u.Icon == nil && u.Order == nil
}

// FolderDeleteResult reports what happened to a deleted folder's products.
type FolderDeleteResult struct {
	FolderID string `json:"folder_id"`
	Moved    int64  `json:"moved"`
	Deleted  int64  `json:"deleted"`
}
