package core

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/edvin/retailpos/internal/metrics"
	"github.com/edvin/retailpos/internal/model"
)

type PaymentService struct {
	payments PaymentRepository
	events   EventPublisher
	currency string
	logger   zerolog.Logger
}

func NewPaymentService(payments PaymentRepository, events EventPublisher, currency string, logger zerolog.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		events:   events,
		currency: currency,
		logger:   logger.With().Str("component", "payments").Logger(),
	}
}

// Log validates and records a completed sale. Cash payments get their change
// computed; card payments must reference a payment intent, and each intent can
// be logged only once.
func (s *PaymentService) Log(ctx context.Context, payment *model.Payment) error {
	if payment.Amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", model.ErrInvalid)
	}
	if payment.Currency == "" {
		payment.Currency = s.currency
	}
	payment.Currency = strings.ToLower(payment.Currency)

	switch payment.Method {
	case model.PaymentMethodCash:
		change, err := ChangeDue(payment.Amount, payment.CashTendered)
		if err != nil {
			return err
		}
		payment.ChangeDue = change
		payment.PaymentIntentID = ""
	case model.PaymentMethodCard:
		if payment.PaymentIntentID == "" {
			return fmt.Errorf("card payment requires payment_intent_id: %w", model.ErrInvalid)
		}
		payment.CashTendered = 0
		payment.ChangeDue = 0
	default:
		return fmt.Errorf("unknown payment method %q: %w", payment.Method, model.ErrInvalid)
	}

	if len(payment.Items) > 0 {
		if total := CartTotal(payment.Items); total != payment.Amount {
			return fmt.Errorf("items total %s does not match amount %s: %w",
				FormatMinorUnits(total), FormatMinorUnits(payment.Amount), model.ErrInvalid)
		}
	} else {
		payment.Items = []model.PaymentItem{}
	}

	if payment.Status == "" {
		payment.Status = model.PaymentStatusSucceeded
	}
	payment.CreatedAt = time.Now()

	if err := s.payments.Create(ctx, payment); err != nil {
		return err
	}

	metrics.PaymentsLogged.WithLabelValues(payment.Method).Inc()
	metrics.PaymentAmount.WithLabelValues(payment.Method, payment.Currency).Add(float64(payment.Amount))

	s.logger.Info().
		Str("payment_id", payment.ID.Hex()).
		Str("method", payment.Method).
		Int64("amount", payment.Amount).
		Str("payment_intent_id", payment.PaymentIntentID).
		Msg("payment logged")
	s.events.Publish(model.EventPaymentLogged, payment)
	return nil
}

// List returns payments newest first.
func (s *PaymentService) List(ctx context.Context, limit, offset int64) ([]model.Payment, int64, error) {
	return s.payments.List(ctx, limit, offset)
}

// ExportCSV writes every payment to w as CSV, newest first.
func (s *PaymentService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	payments, _, err := s.payments.List(ctx, 0, 0)
	if err != nil {
		return 0, err
	}

	rows := make([]model.PaymentRow, 0, len(payments))
	for _, p := range payments {
		row := model.PaymentRow{
			ID:              p.ID.Hex(),
			CreatedAt:       p.CreatedAt.UTC().Format(time.RFC3339),
			Method:          p.Method,
			Status:          p.Status,
			Amount:          FormatMinorUnits(p.Amount),
			Currency:        p.Currency,
			PaymentIntentID: p.PaymentIntentID,
			ItemCount:       len(p.Items),
		}
		if p.Method == model.PaymentMethodCash {
			row.CashTendered = FormatMinorUnits(p.CashTendered)
			row.ChangeDue = FormatMinorUnits(p.ChangeDue)
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return 0, fmt.Errorf("write payments csv: %w", err)
	}
	return len(rows), nil
}
