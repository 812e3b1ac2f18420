package model

// PaymentIntentParams describes a card-present payment intent to create.
type PaymentIntentParams struct {
	Amount         int64
	Currency       string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// Reader is a Stripe Terminal card reader.
type Reader struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	DeviceType   string `json:"device_type"`
	SerialNumber string `json:"serial_number"`
	Status       string `json:"status"`
	LocationID   string `json:"location_id,omitempty"`
	IPAddress    string `json:"ip_address,omitempty"`
	ActionType   string `json:"action_type,omitempty"`
	ActionStatus string `json:"action_status,omitempty"`
}

// Reader statuses as reported by Stripe.
const (
	ReaderStatusOnline  = "online"
	ReaderStatusOffline = "offline"
)

type TerminalLocation struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Address     string `json:"address"`
}

// TerminalDiagnostics summarizes the Stripe Terminal setup.
type TerminalDiagnostics struct {
	Mode               string             `json:"mode"`
	LocationID         string             `json:"location_id,omitempty"`
	LocationConfigured bool               `json:"location_configured"`
	LocationFound      bool               `json:"location_found"`
	Locations          []TerminalLocation `json:"locations"`
	Readers            []Reader           `json:"readers"`
	ReadersOnline      int                `json:"readers_online"`
	ReadersOffline     int                `json:"readers_offline"`
	Problems           []string           `json:"problems"`
}
