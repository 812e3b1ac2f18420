package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/retailpos/internal/api/request"
	"github.com/edvin/retailpos/internal/api/response"
	"github.com/edvin/retailpos/internal/core"
)

type Terminal struct {
	svc *core.TerminalService
}

func NewTerminal(svc *core.TerminalService) *Terminal {
	return &Terminal{svc: svc}
}

// ConnectionToken godoc
//
//	@Summary		Create a Terminal connection token
//	@Tags			Terminal
//	@Success		200 {object} map[string]string
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/connection_token [post]
func (h *Terminal) ConnectionToken(w http.ResponseWriter, r *http.Request) {
	secret, err := h.svc.ConnectionToken(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"secret": secret})
}

// CreatePaymentIntent godoc
//
//	@Summary		Create a card-present payment intent
//	@Description	Creates a manual-capture payment intent. The amount is in the smallest currency unit; currency defaults to usd.
//	@Tags			Terminal
//	@Param			body body request.CreatePaymentIntent true "Intent details"
//	@Success		200 {object} model.PaymentIntent
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/create_payment_intent [post]
func (h *Terminal) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePaymentIntent
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	intent, err := h.svc.CreatePaymentIntent(r.Context(), req.Amount, req.Currency, req.Description, req.Metadata)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, intent)
}

// CapturePaymentIntent godoc
//
//	@Summary		Capture a payment intent
//	@Tags			Terminal
//	@Param			body body request.PaymentIntentRef true "Payment intent"
//	@Success		200 {object} model.PaymentIntent
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/capture_payment_intent [post]
func (h *Terminal) CapturePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentIntentRef
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	intent, err := h.svc.CapturePaymentIntent(r.Context(), req.PaymentIntentID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, intent)
}

// CancelPaymentIntent godoc
//
//	@Summary		Cancel a payment intent
//	@Tags			Terminal
//	@Param			body body request.PaymentIntentRef true "Payment intent"
//	@Success		200 {object} model.PaymentIntent
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/cancel_payment_intent [post]
func (h *Terminal) CancelPaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentIntentRef
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	intent, err := h.svc.CancelPaymentIntent(r.Context(), req.PaymentIntentID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, intent)
}

// Readers godoc
//
//	@Summary		List readers
//	@Tags			Terminal
//	@Success		200 {array} model.Reader
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/terminal/readers [get]
func (h *Terminal) Readers(w http.ResponseWriter, r *http.Request) {
	readers, err := h.svc.Readers(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, readers)
}

// Locations godoc
//
//	@Summary		List Terminal locations
//	@Tags			Terminal
//	@Success		200 {array} model.TerminalLocation
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/terminal/locations [get]
func (h *Terminal) Locations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.svc.Locations(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, locations)
}

// Diagnostics godoc
//
//	@Summary		Diagnose the Terminal setup
//	@Description	Reports the key mode, locations, readers and any problems found.
//	@Tags			Terminal
//	@Success		200 {object} model.TerminalDiagnostics
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/terminal/diagnostics [get]
func (h *Terminal) Diagnostics(w http.ResponseWriter, r *http.Request) {
	diag, err := h.svc.Diagnostics(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, diag)
}

// ProcessPayment godoc
//
//	@Summary		Process a payment on a reader
//	@Description	Hands a payment intent to a server-driven reader.
//	@Tags			Terminal
//	@Param			id path string true "Reader ID"
//	@Param			body body request.PaymentIntentRef true "Payment intent"
//	@Success		200 {object} model.Reader
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/terminal/readers/{id}/process [post]
func (h *Terminal) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	readerID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.PaymentIntentRef
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reader, err := h.svc.ProcessPayment(r.Context(), readerID, req.PaymentIntentID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, reader)
}

// CancelAction godoc
//
//	@Summary		Cancel the reader's current action
//	@Tags			Terminal
//	@Param			id path string true "Reader ID"
//	@Success		200 {object} model.Reader
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/terminal/readers/{id}/cancel [post]
func (h *Terminal) CancelAction(w http.ResponseWriter, r *http.Request) {
	readerID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reader, err := h.svc.CancelReaderAction(r.Context(), readerID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, reader)
}

// Simulate godoc
//
//	@Summary		Present a test card
//	@Description	Simulates a card tap on a simulated reader. Only available with a test-mode key.
//	@Tags			Terminal
//	@Param			id path string true "Reader ID"
//	@Success		200 {object} model.Reader
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/terminal/readers/{id}/simulate [post]
func (h *Terminal) Simulate(w http.ResponseWriter, r *http.Request) {
	readerID, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reader, err := h.svc.SimulatePayment(r.Context(), readerID)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, reader)
}
