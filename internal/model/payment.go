package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods.
const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

// Payment statuses.
const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
)

type PaymentItem struct {
	ProductID string  `json:"product_id" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Payment is a logged sale. Amounts are in the currency's minor unit.
type Payment struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Method          string             `json:"method" bson:"method"`
	Amount          int64              `json:"amount" bson:"amount"`
	Currency        string             `json:"currency" bson:"currency"`
	Status          string             `json:"status" bson:"status"`
	PaymentIntentID string             `json:"payment_intent_id,omitempty" bson:"paymentIntentId,omitempty"`
	ReaderID        string             `json:"reader_id,omitempty" bson:"readerId,omitempty"`
	CashTendered    int64              `json:"cash_tendered,omitempty" bson:"cashTendered,omitempty"`
	ChangeDue       int64              `json:"change_due,omitempty" bson:"changeDue,omitempty"`
	Items           []PaymentItem      `json:"items" bson:"items"`
	CreatedAt       time.Time          `json:"created_at" bson:"createdAt"`
}

// PaymentRow is the flattened CSV export shape of a Payment.
type PaymentRow struct {
	ID              string `csv:"id"`
	CreatedAt       string `csv:"created_at"`
	Method          string `csv:"method"`
	Status          string `csv:"status"`
	Amount          string `csv:"amount"`
	Currency        string `csv:"currency"`
	PaymentIntentID string `csv:"payment_intent_id"`
	CashTendered    string `csv:"cash_tendered"`
	ChangeDue       string `csv:"change_due"`
	ItemCount       int    `csv:"item_count"`
}
