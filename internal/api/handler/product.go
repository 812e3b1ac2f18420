package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/api/request"
	"github.com/edvin/retailpos/internal/api/response"
	"github.com/edvin/retailpos/internal/core"
	"github.com/edvin/retailpos/internal/model"
)

type Product struct {
	svc *core.ProductService
}

func NewProduct(svc *core.ProductService) *Product {
	return &Product{svc: svc}
}

// List godoc
//
//	@Summary		List products
//	@Tags			Products
//	@Param			folder_id query string false "Folder ID"
//	@Param			source query string false "Product source"
//	@Param			category query string false "Category"
//	@Param			q query string false "Case-insensitive name search"
//	@Param			include_inactive query bool false "Include soft-deleted products"
//	@Param			limit query int false "Page size"
//	@Param			offset query int false "Items to skip"
//	@Success		200 {object} response.ListResponse{items=[]model.Product}
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/products [get]
func (h *Product) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ProductFilter{
		Source:          q.Get("source"),
		Category:        q.Get("category"),
		Search:          q.Get("q"),
		IncludeInactive: request.QueryBool(r, "include_inactive"),
	}
	if folderID := q.Get("folder_id"); folderID != "" {
		oid, err := primitive.ObjectIDFromHex(folderID)
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, "invalid folder_id")
			return
		}
		filter.FolderID = &oid
	}
	pg := request.ParsePagination(r)

	products, total, err := h.svc.List(r.Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteList(w, products, total, pg.Limit, pg.Offset)
}

// Get godoc
//
//	@Summary		Get a product
//	@Tags			Products
//	@Param			id path string true "Product ID"
//	@Success		200 {object} model.Product
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/products/{id} [get]
func (h *Product) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, product)
}

// Create godoc
//
//	@Summary		Create a product
//	@Description	Creates a product. Without a folder it lands in the default folder.
//	@Tags			Products
//	@Param			body body request.CreateProduct true "Product details"
//	@Success		201 {object} model.Product
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/products [post]
func (h *Product) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProduct
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := req.Product()
	if err := h.svc.Create(r.Context(), product); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, product)
}

// Update godoc
//
//	@Summary		Update a product
//	@Tags			Products
//	@Param			id path string true "Product ID"
//	@Param			body body model.ProductUpdate true "Fields to change"
//	@Success		200 {object} model.Product
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/products/{id} [put]
func (h *Product) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var upd model.ProductUpdate
	if err := request.Decode(r, &upd); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.Update(r.Context(), id, upd)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, product)
}

// Move godoc
//
//	@Summary		Move a product to another folder
//	@Tags			Products
//	@Param			id path string true "Product ID"
//	@Param			body body request.MoveProduct true "Target folder"
//	@Success		200 {object} model.Product
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/products/{id}/folder [patch]
func (h *Product) Move(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.MoveProduct
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.MoveToFolder(r.Context(), id, req.FolderID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, product)
}

// Sell godoc
//
//	@Summary		Sell a product
//	@Description	Atomically decrements the stock of an active product. Soft-deleted products answer 404.
//	@Tags			Products
//	@Param			id path string true "Product ID"
//	@Param			body body request.SellProduct true "Quantity sold"
//	@Success		200 {object} model.Product
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/products/{id}/sell [post]
func (h *Product) Sell(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.SellProduct
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.Sell(r.Context(), id, req.Quantity)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, product)
}

// Delete godoc
//
//	@Summary		Delete a product
//	@Description	Deactivates the product, or removes it with hard=true.
//	@Tags			Products
//	@Param			id path string true "Product ID"
//	@Param			hard query bool false "Remove the document"
//	@Success		204
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/mongodb/products/{id} [delete]
func (h *Product) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id, request.QueryBool(r, "hard")); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
