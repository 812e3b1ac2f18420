// Package terminal adapts the Stripe API to the register's card-present flow.
package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/edvin/retailpos/internal/model"
)

// Stripe implements core.StripeTerminal on top of stripe-go.
type Stripe struct {
	api *client.API
}

// New returns a Stripe adapter. Nil backends use the live Stripe endpoints.
func New(secretKey string, backends *stripe.Backends) *Stripe {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &Stripe{api: api}
}

// BackendsFor points every Stripe backend at baseURL. Used against stripe-mock
// and in tests.
func BackendsFor(baseURL string) *stripe.Backends {
	cfg := &stripe.BackendConfig{
		URL:               stripe.String(baseURL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	return &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
}

func (s *Stripe) CreateConnectionToken(ctx context.Context, locationID string) (string, error) {
	params := &stripe.TerminalConnectionTokenParams{}
	params.Context = ctx
	if locationID != "" {
		params.Location = stripe.String(locationID)
	}

	token, err := s.api.TerminalConnectionTokens.New(params)
	if err != nil {
		return "", fmt.Errorf("create connection token: %w", err)
	}
	return token.Secret, nil
}

func (s *Stripe) CreatePaymentIntent(ctx context.Context, p model.PaymentIntentParams) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(p.Amount),
		Currency:           stripe.String(p.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card_present"}),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	params.Context = ctx
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return paymentIntent(pi), nil
}

func (s *Stripe) CapturePaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Capture(id, params)
	if err != nil {
		return nil, fmt.Errorf("capture payment intent %s: %w", id, err)
	}
	return paymentIntent(pi), nil
}

func (s *Stripe) CancelPaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Cancel(id, params)
	if err != nil {
		return nil, fmt.Errorf("cancel payment intent %s: %w", id, err)
	}
	return paymentIntent(pi), nil
}

func (s *Stripe) ListReaders(ctx context.Context, locationID string) ([]model.Reader, error) {
	params := &stripe.TerminalReaderListParams{}
	params.Context = ctx
	if locationID != "" {
		params.Location = stripe.String(locationID)
	}

	readers := []model.Reader{}
	iter := s.api.TerminalReaders.List(params)
	for iter.Next() {
		readers = append(readers, reader(iter.TerminalReader()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list readers: %w", err)
	}
	return readers, nil
}

func (s *Stripe) ListLocations(ctx context.Context) ([]model.TerminalLocation, error) {
	params := &stripe.TerminalLocationListParams{}
	params.Context = ctx

	locations := []model.TerminalLocation{}
	iter := s.api.TerminalLocations.List(params)
	for iter.Next() {
		locations = append(locations, location(iter.TerminalLocation()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// ProcessPaymentIntent hands the intent to a server-driven reader.
func (s *Stripe) ProcessPaymentIntent(ctx context.Context, readerID, intentID string) (*model.Reader, error) {
	params := &stripe.TerminalReaderProcessPaymentIntentParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx

	r, err := s.api.TerminalReaders.ProcessPaymentIntent(readerID, params)
	if err != nil {
		return nil, fmt.Errorf("process payment intent on reader %s: %w", readerID, err)
	}
	m := reader(r)
	return &m, nil
}

func (s *Stripe) CancelReaderAction(ctx context.Context, readerID string) (*model.Reader, error) {
	params := &stripe.TerminalReaderCancelActionParams{}
	params.Context = ctx

	r, err := s.api.TerminalReaders.CancelAction(readerID, params)
	if err != nil {
		return nil, fmt.Errorf("cancel action on reader %s: %w", readerID, err)
	}
	m := reader(r)
	return &m, nil
}

// PresentTestPaymentMethod taps a test card on a simulated reader.
func (s *Stripe) PresentTestPaymentMethod(ctx context.Context, readerID string) (*model.Reader, error) {
	params := &stripe.TestHelpersTerminalReaderPresentPaymentMethodParams{}
	params.Context = ctx

	r, err := s.api.TestHelpersTerminalReaders.PresentPaymentMethod(readerID, params)
	if err != nil {
		return nil, fmt.Errorf("present test card on reader %s: %w", readerID, err)
	}
	m := reader(r)
	return &m, nil
}

func paymentIntent(pi *stripe.PaymentIntent) *model.PaymentIntent {
	return &model.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}

func reader(r *stripe.TerminalReader) model.Reader {
	m := model.Reader{
		ID:           r.ID,
		Label:        r.Label,
		DeviceType:   string(r.DeviceType),
		SerialNumber: r.SerialNumber,
		Status:       string(r.Status),
		IPAddress:    r.IPAddress,
	}
	if r.Location != nil {
		m.LocationID = r.Location.ID
	}
	if r.Action != nil {
		m.ActionType = string(r.Action.Type)
		m.ActionStatus = string(r.Action.Status)
	}
	return m
}

func location(l *stripe.TerminalLocation) model.TerminalLocation {
	m := model.TerminalLocation{ID: l.ID, DisplayName: l.DisplayName}
	if a := l.Address; a != nil {
		var parts []string
		for _, p := range []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		m.Address = strings.Join(parts, ", ")
	}
	return m
}
