package request

import "github.com/edvin/retailpos/internal/model"

type PaymentItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
}

// LogPayment records a completed sale. Amounts are in minor units.
type LogPayment struct {
	Method          string        `json:"method" validate:"required,oneof=card cash"`
	Amount          int64         `json:"amount" validate:"required,gt=0"`
	Currency        string        `json:"currency" validate:"omitempty,len=3"`
	PaymentIntentID string        `json:"payment_intent_id" validate:"required_if=Method card"`
	ReaderID        string        `json:"reader_id"`
	CashTendered    int64         `json:"cash_tendered" validate:"required_if=Method cash,gte=0"`
	Items           []PaymentItem `json:"items" validate:"dive"`
}

func (r LogPayment) Payment() *model.Payment {
	items := make([]model.PaymentItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, model.PaymentItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return &model.Payment{
		Method:          r.Method,
		Amount:          r.Amount,
		Currency:        r.Currency,
		PaymentIntentID: r.PaymentIntentID,
		ReaderID:        r.ReaderID,
		CashTendered:    r.CashTendered,
		Items:           items,
	}
}
