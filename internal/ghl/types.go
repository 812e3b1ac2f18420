package ghl

// Product is a catalog product as returned by the GHL products API.
type Product struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ProductType string `json:"productType"`
	LocationID  string `json:"locationId"`
}

type Price struct {
	ID                string  `json:"_id"`
	ProductID         string  `json:"product"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	AvailableQuantity int     `json:"availableQuantity"`
	TrackInventory    bool    `json:"trackInventory"`
}

type listProductsResponse struct {
	Products []Product `json:"products"`
	Total    []struct {
		Total int `json:"total"`
	} `json:"total"`
}

type listPricesResponse struct {
	Prices []Price `json:"prices"`
}

type updatePriceRequest struct {
	LocationID        string `json:"locationId"`
	AvailableQuantity int    `json:"availableQuantity"`
	TrackInventory    bool   `json:"trackInventory"`
}
