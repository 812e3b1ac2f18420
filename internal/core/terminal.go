package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/retailpos/internal/model"
)

// TerminalService drives Stripe Terminal card readers. With a nil client every
// operation fails with model.ErrNotConfigured.
type TerminalService struct {
	stripe     StripeTerminal
	locationID string
	currency   string
	testMode   bool
	logger     zerolog.Logger
}

func NewTerminalService(stripe StripeTerminal, locationID, currency string, testMode bool, logger zerolog.Logger) *TerminalService {
	return &TerminalService{
		stripe:     stripe,
		locationID: locationID,
		currency:   currency,
		testMode:   testMode,
		logger:     logger.With().Str("component", "terminal").Logger(),
	}
}

func (s *TerminalService) Enabled() bool {
	return s.stripe != nil
}

func (s *TerminalService) client() (StripeTerminal, error) {
	if s.stripe == nil {
		return nil, fmt.Errorf("stripe terminal: %w", model.ErrNotConfigured)
	}
	return s.stripe, nil
}

// ConnectionToken issues a token the Terminal SDK uses to connect to a reader.
func (s *TerminalService) ConnectionToken(ctx context.Context) (string, error) {
	c, err := s.client()
	if err != nil {
		return "", err
	}
	return c.CreateConnectionToken(ctx, s.locationID)
}

// CreatePaymentIntent creates a manually captured card-present intent for
// amount minor units.
func (s *TerminalService) CreatePaymentIntent(ctx context.Context, amount int64, currency, description string, metadata map[string]string) (*model.PaymentIntent, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", model.ErrInvalid)
	}
	if currency == "" {
		currency = s.currency
	}

	intent, err := c.CreatePaymentIntent(ctx, model.PaymentIntentParams{
		Amount:         amount,
		Currency:       strings.ToLower(currency),
		Description:    description,
		Metadata:       metadata,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("payment_intent_id", intent.ID).Int64("amount", amount).Msg("payment intent created")
	return intent, nil
}

func (s *TerminalService) CapturePaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("payment_intent_id is required: %w", model.ErrInvalid)
	}
	intent, err := c.CapturePaymentIntent(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("payment_intent_id", id).Str("status", intent.Status).Msg("payment intent captured")
	return intent, nil
}

func (s *TerminalService) CancelPaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("payment_intent_id is required: %w", model.ErrInvalid)
	}
	return c.CancelPaymentIntent(ctx, id)
}

// Readers lists readers at the configured location, or all readers when no
// location is configured.
func (s *TerminalService) Readers(ctx context.Context) ([]model.Reader, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	return c.ListReaders(ctx, s.locationID)
}

func (s *TerminalService) Locations(ctx context.Context) ([]model.TerminalLocation, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	return c.ListLocations(ctx)
}

// Diagnostics inspects the account's Terminal setup and lists likely problems.
func (s *TerminalService) Diagnostics(ctx context.Context) (*model.TerminalDiagnostics, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}

	d := &model.TerminalDiagnostics{
		Mode:               "live",
		LocationID:         s.locationID,
		LocationConfigured: s.locationID != "",
		Problems:           []string{},
	}
	if s.testMode {
		d.Mode = "test"
	}

	locations, err := c.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	d.Locations = locations
	for _, l := range locations {
		if l.ID == s.locationID {
			d.LocationFound = true
		}
	}

	readers, err := c.ListReaders(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list readers: %w", err)
	}
	d.Readers = readers
	for _, r := range readers {
		if r.Status == model.ReaderStatusOnline {
			d.ReadersOnline++
		} else {
			d.ReadersOffline++
		}
	}

	switch {
	case len(locations) == 0:
		d.Problems = append(d.Problems, "no terminal locations exist on this account")
	case !d.LocationConfigured:
		d.Problems = append(d.Problems, "STRIPE_LOCATION_ID is not set")
	case !d.LocationFound:
		d.Problems = append(d.Problems, fmt.Sprintf("location %s was not found on this account", s.locationID))
	}
	if len(readers) == 0 {
		d.Problems = append(d.Problems, "no readers are registered")
	} else if d.ReadersOnline == 0 {
		d.Problems = append(d.Problems, "all readers are offline")
	}
	return d, nil
}

// ProcessPayment hands a payment intent to a server-driven reader.
func (s *TerminalService) ProcessPayment(ctx context.Context, readerID, intentID string) (*model.Reader, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	if intentID == "" {
		return nil, fmt.Errorf("payment_intent_id is required: %w", model.ErrInvalid)
	}
	return c.ProcessPaymentIntent(ctx, readerID, intentID)
}

func (s *TerminalService) CancelReaderAction(ctx context.Context, readerID string) (*model.Reader, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	return c.CancelReaderAction(ctx, readerID)
}

// SimulatePayment presents a test card on a simulated reader. Test mode only.
func (s *TerminalService) SimulatePayment(ctx context.Context, readerID string) (*model.Reader, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	if !s.testMode {
		return nil, fmt.Errorf("reader simulation requires a test-mode key: %w", model.ErrInvalid)
	}
	return c.PresentTestPaymentMethod(ctx, readerID)
}
