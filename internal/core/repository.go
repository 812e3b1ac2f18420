package core

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetByExternalID(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context, f model.ProductFilter, limit, offset int64) ([]model.Product, int64, error)
	Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error)
	SetFolder(ctx context.Context, id string, folderID primitive.ObjectID) (*model.Product, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	DecrementQuantity(ctx context.Context, id string, n int) (*model.Product, error)
	ReassignFolder(ctx context.Context, from, to primitive.ObjectID) (int64, error)
	DeactivateByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error)
	CountActiveByFolder(ctx context.Context) (map[primitive.ObjectID]int64, error)
	ResetQuantities(ctx context.Context, quantity int) (int64, error)
	UpsertByName(ctx context.Context, product *model.Product) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type FolderRepository interface {
	Create(ctx context.Context, folder *model.Folder) error
	GetByID(ctx context.Context, id string) (*model.Folder, error)
	GetDefault(ctx context.Context) (*model.Folder, error)
	EnsureDefault(ctx context.Context) (*model.Folder, error)
	List(ctx context.Context, includeInactive bool) ([]model.Folder, error)
	Update(ctx context.Context, id string, upd model.FolderUpdate) (*model.Folder, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	SetProductCount(ctx context.Context, id primitive.ObjectID, count int64) error
	SetOrder(ctx context.Context, id primitive.ObjectID, order int) error
	UpsertByName(ctx context.Context, folder *model.Folder) (*model.Folder, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	List(ctx context.Context, limit, offset int64) ([]model.Payment, int64, error)
}

// SnapshotStore persists the last known catalog so the register keeps working
// when the catalog API is unreachable. Load returns model.ErrNotFound when no
// snapshot has been written yet.
type SnapshotStore interface {
	Load(ctx context.Context) ([]model.InventoryItem, error)
	Save(ctx context.Context, items []model.InventoryItem) error
}

// CatalogSource is the live upstream catalog.
type CatalogSource interface {
	ListInventory(ctx context.Context) ([]model.InventoryItem, error)
	UpdateAvailableQuantity(ctx context.Context, productID, priceID string, quantity int) error
}

// CatalogCache holds a recently fetched live catalog.
type CatalogCache interface {
	Get(ctx context.Context) ([]model.InventoryItem, bool, error)
	Set(ctx context.Context, items []model.InventoryItem) error
	Invalidate(ctx context.Context) error
}

// StripeTerminal is the subset of the Stripe API used for in-person payments.
type StripeTerminal interface {
	CreateConnectionToken(ctx context.Context, locationID string) (string, error)
	CreatePaymentIntent(ctx context.Context, params model.PaymentIntentParams) (*model.PaymentIntent, error)
	CapturePaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error)
	ListReaders(ctx context.Context, locationID string) ([]model.Reader, error)
	ListLocations(ctx context.Context) ([]model.TerminalLocation, error)
	ProcessPaymentIntent(ctx context.Context, readerID, intentID string) (*model.Reader, error)
	CancelReaderAction(ctx context.Context, readerID string) (*model.Reader, error)
	PresentTestPaymentMethod(ctx context.Context, readerID string) (*model.Reader, error)
}

// EventPublisher fans domain events out to connected registers.
type EventPublisher interface {
	Publish(eventType string, data any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}
