package core

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/model"
)

// ---------- Mock ProductRepository ----------

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) GetByExternalID(ctx context.Context, productID string) (*model.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, f model.ProductFilter, limit, offset int64) ([]model.Product, int64, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) SetFolder(ctx context.Context, id string, folderID primitive.ObjectID) (*model.Product, error) {
	args := m.Called(ctx, id, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) DecrementQuantity(ctx context.Context, id string, n int) (*model.Product, error) {
	args := m.Called(ctx, id, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) ReassignFolder(ctx context.Context, from, to primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) DeactivateByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, folderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) CountActiveByFolder(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]int64), args.Error(1)
}

func (m *mockProductRepo) ResetQuantities(ctx context.Context, quantity int) (int64, error) {
	args := m.Called(ctx, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) UpsertByName(ctx context.Context, product *model.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ---------- Mock FolderRepository ----------

type mockFolderRepo struct {
	mock.Mock
}

func (m *mockFolderRepo) Create(ctx context.Context, folder *model.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *mockFolderRepo) GetByID(ctx context.Context, id string) (*model.Folder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *mockFolderRepo) GetDefault(ctx context.Context) (*model.Folder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *mockFolderRepo) EnsureDefault(ctx context.Context) (*model.Folder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *mockFolderRepo) List(ctx context.Context, includeInactive bool) ([]model.Folder, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *mockFolderRepo) Update(ctx context.Context, id string, upd model.FolderUpdate) (*model.Folder, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *mockFolderRepo) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockFolderRepo) SetProductCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	args := m.Called(ctx, id, count)
	return args.Error(0)
}

func (m *mockFolderRepo) SetOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	args := m.Called(ctx, id, order)
	return args.Error(0)
}

func (m *mockFolderRepo) UpsertByName(ctx context.Context, folder *model.Folder) (*model.Folder, error) {
	args := m.Called(ctx, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

// ---------- Mock PaymentRepository ----------

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepo) List(ctx context.Context, limit, offset int64) ([]model.Payment, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Payment), args.Get(1).(int64), args.Error(2)
}

// ---------- Mock SnapshotStore ----------

type mockSnapshot struct {
	mock.Mock
}

func (m *mockSnapshot) Load(ctx context.Context) ([]model.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryItem), args.Error(1)
}

func (m *mockSnapshot) Save(ctx context.Context, items []model.InventoryItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// ---------- Mock CatalogSource ----------

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryItem), args.Error(1)
}

func (m *mockCatalog) UpdateAvailableQuantity(ctx context.Context, productID, priceID string, quantity int) error {
	args := m.Called(ctx, productID, priceID, quantity)
	return args.Error(0)
}

// ---------- Mock CatalogCache ----------

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context) ([]model.InventoryItem, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.InventoryItem), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, items []model.InventoryItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ---------- Mock StripeTerminal ----------

type mockStripe struct {
	mock.Mock
}

func (m *mockStripe) CreateConnectionToken(ctx context.Context, locationID string) (string, error) {
	args := m.Called(ctx, locationID)
	return args.String(0), args.Error(1)
}

func (m *mockStripe) CreatePaymentIntent(ctx context.Context, params model.PaymentIntentParams) (*model.PaymentIntent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

func (m *mockStripe) CapturePaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

func (m *mockStripe) CancelPaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntent), args.Error(1)
}

func (m *mockStripe) ListReaders(ctx context.Context, locationID string) ([]model.Reader, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reader), args.Error(1)
}

func (m *mockStripe) ListLocations(ctx context.Context) ([]model.TerminalLocation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TerminalLocation), args.Error(1)
}

func (m *mockStripe) ProcessPaymentIntent(ctx context.Context, readerID, intentID string) (*model.Reader, error) {
	args := m.Called(ctx, readerID, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *mockStripe) CancelReaderAction(ctx context.Context, readerID string) (*model.Reader, error) {
	args := m.Called(ctx, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *mockStripe) PresentTestPaymentMethod(ctx context.Context, readerID string) (*model.Reader, error) {
	args := m.Called(ctx, readerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

// ---------- Recording publisher ----------

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(eventType string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, model.Event{Type: eventType, Data: data})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
