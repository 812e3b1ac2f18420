package request

type CreatePaymentIntent struct {
	Amount      int64             `json:"amount" validate:"required,gt=0"`
	Currency    string            `json:"currency" validate:"omitempty,len=3"`
	Description string            `json:"description" validate:"max=500"`
	Metadata    map[string]string `json:"metadata"`
}

// PaymentIntentRef names an existing payment intent.
type PaymentIntentRef struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}
