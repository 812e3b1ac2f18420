package core

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/edvin/retailpos/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit price (dollars) to minor units (cents),
// rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

// FormatMinorUnits renders cents as a fixed two-decimal major-unit string.
func FormatMinorUnits(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// CartTotal sums price × quantity over the items, in minor units.
func CartTotal(items []model.PaymentItem) int64 {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total.Mul(hundred).Round(0).IntPart()
}

// ChangeDue returns tendered minus amount. Tendering less than the amount is invalid.
func ChangeDue(amount, tendered int64) (int64, error) {
	change := decimal.NewFromInt(tendered).Sub(decimal.NewFromInt(amount))
	if change.IsNegative() {
		return 0, fmt.Errorf("cash tendered %s is less than amount %s: %w",
			FormatMinorUnits(tendered), FormatMinorUnits(amount), model.ErrInvalid)
	}
	return change.IntPart(), nil
}
