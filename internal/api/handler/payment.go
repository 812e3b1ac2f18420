package handler

import (
	"bytes"
	"net/http"

	"github.com/edvin/retailpos/internal/api/request"
	"github.com/edvin/retailpos/internal/api/response"
	"github.com/edvin/retailpos/internal/core"
)

type Payment struct {
	svc *core.PaymentService
}

func NewPayment(svc *core.PaymentService) *Payment {
	return &Payment{svc: svc}
}

// Log godoc
//
//	@Summary		Log a payment
//	@Description	Records a cash or card payment. Cash payments get their change computed from the tendered amount; card payments need the Stripe payment intent ID, which may be logged once.
//	@Tags			Payments
//	@Param			body body request.LogPayment true "Payment details"
//	@Success		201 {object} model.Payment
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/log-payment [post]
func (h *Payment) Log(w http.ResponseWriter, r *http.Request) {
	var req request.LogPayment
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment := req.Payment()
	if err := h.svc.Log(r.Context(), payment); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, payment)
}

// List godoc
//
//	@Summary		List payments
//	@Tags			Payments
//	@Param			limit query int false "Page size"
//	@Param			offset query int false "Items to skip"
//	@Success		200 {object} response.ListResponse{items=[]model.Payment}
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/payments [get]
func (h *Payment) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)

	payments, total, err := h.svc.List(r.Context(), pg.Limit, pg.Offset)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteList(w, payments, total, pg.Limit, pg.Offset)
}

// ExportCSV godoc
//
//	@Summary		Export payments as CSV
//	@Description	Streams every payment as a CSV attachment, newest first.
//	@Tags			Payments
//	@Success		200 {file} file
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/payments/export.csv [get]
func (h *Payment) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := h.svc.ExportCSV(r.Context(), &buf); err != nil {
		response.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="payments.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
