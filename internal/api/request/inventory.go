package request

import "github.com/edvin/retailpos/internal/model"

type UpdateInventory struct {
	Items []model.SoldItem `json:"items" validate:"required,min=1,dive"`
}
