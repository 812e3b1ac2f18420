package core

import (
	"github.com/rs/zerolog"
)

type Services struct {
	Folder    *FolderService
	Product   *ProductService
	Inventory *InventoryService
	Payment   *PaymentService
	Terminal  *TerminalService
}

// Dependencies wires the services. Snapshot, Catalog, Cache, Stripe and Events
// may be nil when the integration is not configured.
type Dependencies struct {
	Products ProductRepository
	Folders  FolderRepository
	Payments PaymentRepository

	Snapshot SnapshotStore
	Catalog  CatalogSource
	Cache    CatalogCache
	Stripe   StripeTerminal
	Events   EventPublisher

	Currency         string
	StripeLocationID string
	StripeTestMode   bool
}

func NewServices(deps Dependencies, logger zerolog.Logger) *Services {
	events := deps.Events
	if events == nil {
		events = nopPublisher{}
	}

	folder := NewFolderService(deps.Folders, deps.Products, events, logger)
	return &Services{
		Folder:    folder,
		Product:   NewProductService(deps.Products, folder, events, logger),
		Inventory: NewInventoryService(deps.Products, deps.Snapshot, deps.Catalog, deps.Cache, events, deps.Currency, logger),
		Payment:   NewPaymentService(deps.Payments, events, deps.Currency, logger),
		Terminal:  NewTerminalService(deps.Stripe, deps.StripeLocationID, deps.Currency, deps.StripeTestMode, logger),
	}
}
