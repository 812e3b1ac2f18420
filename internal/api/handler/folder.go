package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/retailpos/internal/api/request"
	"github.com/edvin/retailpos/internal/api/response"
	"github.com/edvin/retailpos/internal/core"
	"github.com/edvin/retailpos/internal/model"
)

type Folder struct {
	svc *core.FolderService
}

func NewFolder(svc *core.FolderService) *Folder {
	return &Folder{svc: svc}
}

// List godoc
//
//	@Summary		List folders
//	@Tags			Folders
//	@Param			refresh_counts query bool false "Recompute product counts first"
//	@Success		200 {array} model.Folder
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/folders [get]
func (h *Folder) List(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.List(r.Context(), request.QueryBool(r, "refresh_counts"))
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, folders)
}

// Get godoc
//
//	@Summary		Get a folder
//	@Tags			Folders
//	@Param			id path string true "Folder ID"
//	@Success		200 {object} model.Folder
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/folders/{id} [get]
func (h *Folder) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, folder)
}

// ListProducts godoc
//
//	@Summary		List products in a folder
//	@Tags			Folders
//	@Param			id path string true "Folder ID"
//	@Param			include_inactive query bool false "Include soft-deleted products"
//	@Param			limit query int false "Page size"
//	@Param			offset query int false "Items to skip"
//	@Success		200 {object} response.ListResponse{items=[]model.Product}
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/folders/{id}/products [get]
func (h *Folder) ListProducts(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	pg := request.ParsePagination(r)

	products, total, err := h.svc.ListProducts(r.Context(), id, request.QueryBool(r, "include_inactive"), pg.Limit, pg.Offset)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteList(w, products, total, pg.Limit, pg.Offset)
}

// Create godoc
//
//	@Summary		Create a folder
//	@Tags			Folders
//	@Param			body body request.CreateFolder true "Folder details"
//	@Success		201 {object} model.Folder
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/folders [post]
func (h *Folder) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFolder
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder := req.Folder()
	if err := h.svc.Create(r.Context(), folder); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, folder)
}

// Update godoc
//
//	@Summary		Update a folder
//	@Tags			Folders
//	@Param			id path string true "Folder ID"
//	@Param			body body model.FolderUpdate true "Fields to change"
//	@Success		200 {object} model.Folder
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/folders/{id} [put]
func (h *Folder) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var upd model.FolderUpdate
	if err := request.Decode(r, &upd); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.svc.Update(r.Context(), id, upd)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, folder)
}

// Delete godoc
//
//	@Summary		Delete a folder
//	@Description	Soft-deletes the folder. Its products move to the default folder unless deleteProducts=true, in which case they are deactivated with it. The default folder cannot be deleted.
//	@Tags			Folders
//	@Param			id path string true "Folder ID"
//	@Param			deleteProducts query bool false "Deactivate the folder's products instead of moving them"
//	@Success		200 {object} model.FolderDeleteResult
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/folders/{id} [delete]
func (h *Folder) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Delete(r.Context(), id, request.QueryBool(r, "deleteProducts"))
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

// Reorder godoc
//
//	@Summary		Reorder folders
//	@Description	Sets each folder's display order to its position in the given list and returns the active folders.
//	@Tags			Folders
//	@Param			body body request.ReorderFolders true "Folder IDs in display order"
//	@Success		200 {array} model.Folder
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/folders/reorder [put]
func (h *Folder) Reorder(w http.ResponseWriter, r *http.Request) {
	var req request.ReorderFolders
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Reorder(r.Context(), req.IDs); err != nil {
		response.WriteServiceError(w, err)
		return
	}

	folders, err := h.svc.List(r.Context(), false)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, folders)
}

// Recalculate godoc
//
//	@Summary		Recalculate folder product counts
//	@Tags			Folders
//	@Success		200 {array} model.Folder
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/folders/recalculate [post]
func (h *Folder) Recalculate(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.RecalculateCounts(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, folders)
}
