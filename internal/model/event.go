package model

import "time"

// Event types pushed to connected registers.
const (
	EventPaymentLogged    = "payment.logged"
	EventInventoryUpdated = "inventory.updated"
	EventProductChanged   = "product.changed"
	EventFolderChanged    = "folder.changed"
)

type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}
