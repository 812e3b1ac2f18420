package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/model"
)

func newPaymentTestService() (*PaymentService, *mockPaymentRepo, *recordingPublisher) {
	repo := &mockPaymentRepo{}
	pub := &recordingPublisher{}
	return NewPaymentService(repo, pub, "usd", zerolog.Nop()), repo, pub
}

func TestPaymentService_Log_Cash(t *testing.T) {
	svc, repo, pub := newPaymentTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*model.Payment")).Return(nil)

	p := &model.Payment{
		Method:       model.PaymentMethodCash,
		Amount:       1505,
		CashTendered: 2000,
		Items: []model.PaymentItem{
			{Name: "Latte", Price: 4.1, Quantity: 3},
			{Name: "Scone", Price: 2.75, Quantity: 1},
		},
	}
	require.NoError(t, svc.Log(ctx, p))

	assert.Equal(t, int64(495), p.ChangeDue)
	assert.Equal(t, "usd", p.Currency)
	assert.Equal(t, model.PaymentStatusSucceeded, p.Status)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, []string{model.EventPaymentLogged}, pub.types())
	repo.AssertExpectations(t)
}

func TestPaymentService_Log_CashShort(t *testing.T) {
	svc, repo, _ := newPaymentTestService()

	err := svc.Log(context.Background(), &model.Payment{Method: model.PaymentMethodCash, Amount: 1000, CashTendered: 500})
	assert.ErrorIs(t, err, model.ErrInvalid)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_Log_CardRequiresIntent(t *testing.T) {
	svc, _, _ := newPaymentTestService()

	err := svc.Log(context.Background(), &model.Payment{Method: model.PaymentMethodCard, Amount: 1000})
	assert.ErrorIs(t, err, model.ErrInvalid)
	assert.Contains(t, err.Error(), "payment_intent_id")
}

func TestPaymentService_Log_CardClearsCashFields(t *testing.T) {
	svc, repo, _ := newPaymentTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)

	p := &model.Payment{Method: model.PaymentMethodCard, Amount: 1000, Currency: "EUR", PaymentIntentID: "pi_1", CashTendered: 5000}
	require.NoError(t, svc.Log(ctx, p))
	assert.Zero(t, p.CashTendered)
	assert.Equal(t, "eur", p.Currency)
	assert.NotNil(t, p.Items)
}

func TestPaymentService_Log_DuplicateIntent(t *testing.T) {
	svc, repo, pub := newPaymentTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("payment for intent pi_1: %w", model.ErrConflict))

	err := svc.Log(ctx, &model.Payment{Method: model.PaymentMethodCard, Amount: 1000, PaymentIntentID: "pi_1"})
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Empty(t, pub.types())
}

func TestPaymentService_Log_ItemsMismatch(t *testing.T) {
	svc, _, _ := newPaymentTestService()

	err := svc.Log(context.Background(), &model.Payment{
		Method:          model.PaymentMethodCard,
		Amount:          1000,
		PaymentIntentID: "pi_1",
		Items:           []model.PaymentItem{{Name: "Latte", Price: 4.5, Quantity: 2}},
	})
	assert.ErrorIs(t, err, model.ErrInvalid)
	assert.Contains(t, err.Error(), "9.00")
}

func TestPaymentService_Log_InvalidInput(t *testing.T) {
	svc, _, _ := newPaymentTestService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Log(ctx, &model.Payment{Method: model.PaymentMethodCash, Amount: 0}), model.ErrInvalid)
	assert.ErrorIs(t, svc.Log(ctx, &model.Payment{Method: "cheque", Amount: 100}), model.ErrInvalid)
}

func TestPaymentService_ExportCSV(t *testing.T) {
	svc, repo, _ := newPaymentTestService()
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	payments := []model.Payment{
		{
			ID: primitive.NewObjectID(), Method: model.PaymentMethodCash, Amount: 1505, Currency: "usd",
			Status: model.PaymentStatusSucceeded, CashTendered: 2000, ChangeDue: 495, CreatedAt: created,
			Items: []model.PaymentItem{{Name: "Latte"}, {Name: "Scone"}},
		},
		{
			ID: primitive.NewObjectID(), Method: model.PaymentMethodCard, Amount: 900, Currency: "usd",
			Status: model.PaymentStatusSucceeded, PaymentIntentID: "pi_1", CreatedAt: created,
		},
	}
	repo.On("List", ctx, int64(0), int64(0)).Return(payments, int64(2), nil)

	var buf bytes.Buffer
	n, err := svc.ExportCSV(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,created_at,method,status,amount,currency,payment_intent_id,cash_tendered,change_due,item_count", lines[0])
	assert.Contains(t, lines[1], "cash,succeeded,15.05,usd,,20.00,4.95,2")
	assert.Contains(t, lines[2], "card,succeeded,9.00,usd,pi_1,,,0")
}
