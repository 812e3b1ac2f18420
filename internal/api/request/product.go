package request

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/model"
)

type CreateProduct struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Description string  `json:"description"`
	ProductID   string  `json:"product_id"`
	PriceID     string  `json:"price_id"`
	Source      string  `json:"source" validate:"omitempty,oneof=mongodb ghl manual local"`
	ProductType string  `json:"product_type"`
	Category    string  `json:"category"`
	FolderID    string  `json:"folder_id" validate:"omitempty,objectid"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

func (r CreateProduct) Product() *model.Product {
	p := &model.Product{
		Name:        r.Name,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Description: r.Description,
		ProductID:   r.ProductID,
		PriceID:     r.PriceID,
		Source:      r.Source,
		ProductType: r.ProductType,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
	}
	if oid, err := primitive.ObjectIDFromHex(r.FolderID); err == nil {
		p.FolderID = &oid
	}
	return p
}

type MoveProduct struct {
	FolderID string `json:"folder_id" validate:"required,objectid"`
}

type SellProduct struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
