package model

// Inventory sources, in fallback order.
const (
	InventorySourceSnapshot = "snapshot"
	InventorySourceGHL      = "ghl"
	InventorySourceDemo     = "demo"
)

// InventoryItem is a sellable catalog entry as presented to the register.
type InventoryItem struct {
	ID          string  `json:"id"`
	PriceID     string  `json:"price_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Currency    string  `json:"currency,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Inventory is a catalog listing tagged with the tier that produced it.
type Inventory struct {
	Source string          `json:"source"`
	Items  []InventoryItem `json:"items"`
}

// SoldItem is one line of a completed sale to be deducted from stock.
type SoldItem struct {
	ProductID string `json:"product_id" validate:"required"`
	PriceID   string `json:"price_id"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// StockUpdateResult reports the outcome of deducting one sold item.
type StockUpdateResult struct {
	ProductID string `json:"product_id"`
	Remaining int    `json:"remaining"`
	Error     string `json:"error,omitempty"`
}

// InventoryUpdateResult is the outcome of deducting a sale from stock.
type InventoryUpdateResult struct {
	Updated []StockUpdateResult `json:"updated"`
	Failed  []StockUpdateResult `json:"failed"`

	// InsufficientStock is set when any item failed for lack of stock.
	InsufficientStock bool `json:"-"`
}
