package request

import "github.com/edvin/retailpos/internal/model"

type CreateFolder struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Icon        string `json:"icon"`
	Order       int    `json:"order" validate:"gte=0"`
}

func (r CreateFolder) Folder() *model.Folder {
	return &model.Folder{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Icon:        r.Icon,
		Order:       r.Order,
	}
}

type ReorderFolders struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,objectid"`
}
