package handler

import (
	"net/http"

	"github.com/edvin/retailpos/internal/api/request"
	"github.com/edvin/retailpos/internal/api/response"
	"github.com/edvin/retailpos/internal/core"
)

type Inventory struct {
	svc *core.InventoryService
}

func NewInventory(svc *core.InventoryService) *Inventory {
	return &Inventory{svc: svc}
}

// Get godoc
//
//	@Summary		Get inventory
//	@Description	Returns the catalog from the first source that answers: the GHL API, then the last saved snapshot, then a built-in demo catalog. Never fails. Pass refresh=true to bypass the cache.
//	@Tags			Inventory
//	@Param			refresh query bool false "Bypass the catalog cache"
//	@Success		200 {object} model.Inventory
//	@Router			/inventory [get]
func (h *Inventory) Get(w http.ResponseWriter, r *http.Request) {
	inv := h.svc.Get(r.Context(), request.QueryBool(r, "refresh"))
	response.WriteJSON(w, http.StatusOK, inv)
}

// Update godoc
//
//	@Summary		Record sold items
//	@Description	Decrements stock for every sold item atomically and pushes the new available quantity to GHL. Answers 409 when any item lacked stock; the body still lists the items that were updated.
//	@Tags			Inventory
//	@Param			body body request.UpdateInventory true "Sold items"
//	@Success		200 {object} model.InventoryUpdateResult
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		409 {object} model.InventoryUpdateResult
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/update-inventory [post]
func (h *Inventory) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateInventory
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Update(r.Context(), req.Items)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.InsufficientStock {
		status = http.StatusConflict
	}
	response.WriteJSON(w, status, result)
}
