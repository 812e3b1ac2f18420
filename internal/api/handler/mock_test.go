package handler

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edvin/retailpos/internal/ghl"
	"github.com/edvin/retailpos/internal/model"
)

// ---------- Mock ProductRepository ----------

type mockProducts struct{ mock.Mock }

func (m *mockProducts) product(args mock.Arguments) (*model.Product, error) {
	if p := args.Get(0); p != nil {
		return p.(*model.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProducts) Create(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProducts) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *mockProducts) GetByExternalID(ctx context.Context, productID string) (*model.Product, error) {
	return m.product(m.Called(ctx, productID))
}

func (m *mockProducts) List(ctx context.Context, f model.ProductFilter, limit, offset int64) ([]model.Product, int64, error) {
	args := m.Called(ctx, f, limit, offset)
	return args.Get(0).([]model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProducts) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	return m.product(m.Called(ctx, id, upd))
}

func (m *mockProducts) SetFolder(ctx context.Context, id string, folderID primitive.ObjectID) (*model.Product, error) {
	return m.product(m.Called(ctx, id, folderID))
}

func (m *mockProducts) SetActive(ctx context.Context, id string, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockProducts) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProducts) DecrementQuantity(ctx context.Context, id string, n int) (*model.Product, error) {
	return m.product(m.Called(ctx, id, n))
}

func (m *mockProducts) ReassignFolder(ctx context.Context, from, to primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProducts) DeactivateByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, folderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProducts) CountActiveByFolder(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[primitive.ObjectID]int64), args.Error(1)
}

func (m *mockProducts) ResetQuantities(ctx context.Context, quantity int) (int64, error) {
	args := m.Called(ctx, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProducts) UpsertByName(ctx context.Context, product *model.Product) (bool, error) {
	args := m.Called(ctx, product)
	return args.Bool(0), args.Error(1)
}

func (m *mockProducts) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ---------- Mock FolderRepository ----------

type mockFolders struct{ mock.Mock }

func (m *mockFolders) folder(args mock.Arguments) (*model.Folder, error) {
	if f := args.Get(0); f != nil {
		return f.(*model.Folder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFolders) Create(ctx context.Context, folder *model.Folder) error {
	return m.Called(ctx, folder).Error(0)
}

func (m *mockFolders) GetByID(ctx context.Context, id string) (*model.Folder, error) {
	return m.folder(m.Called(ctx, id))
}

func (m *mockFolders) GetDefault(ctx context.Context) (*model.Folder, error) {
	return m.folder(m.Called(ctx))
}

func (m *mockFolders) EnsureDefault(ctx context.Context) (*model.Folder, error) {
	return m.folder(m.Called(ctx))
}

func (m *mockFolders) List(ctx context.Context, includeInactive bool) ([]model.Folder, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *mockFolders) Update(ctx context.Context, id string, upd model.FolderUpdate) (*model.Folder, error) {
	return m.folder(m.Called(ctx, id, upd))
}

func (m *mockFolders) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockFolders) SetProductCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	return m.Called(ctx, id, count).Error(0)
}

func (m *mockFolders) SetOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	return m.Called(ctx, id, order).Error(0)
}

func (m *mockFolders) UpsertByName(ctx context.Context, folder *model.Folder) (*model.Folder, error) {
	return m.folder(m.Called(ctx, folder))
}

// ---------- Mock PaymentRepository ----------

type mockPayments struct{ mock.Mock }

func (m *mockPayments) Create(ctx context.Context, payment *model.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *mockPayments) List(ctx context.Context, limit, offset int64) ([]model.Payment, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]model.Payment), args.Get(1).(int64), args.Error(2)
}

// ---------- Mock SnapshotStore ----------

type mockSnapshot struct{ mock.Mock }

func (m *mockSnapshot) Load(ctx context.Context) ([]model.InventoryItem, error) {
	args := m.Called(ctx)
	if items := args.Get(0); items != nil {
		return items.([]model.InventoryItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSnapshot) Save(ctx context.Context, items []model.InventoryItem) error {
	return m.Called(ctx, items).Error(0)
}

// ---------- Mock StripeTerminal ----------

type mockStripe struct{ mock.Mock }

func (m *mockStripe) intent(args mock.Arguments) (*model.PaymentIntent, error) {
	if pi := args.Get(0); pi != nil {
		return pi.(*model.PaymentIntent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStripe) reader(args mock.Arguments) (*model.Reader, error) {
	if r := args.Get(0); r != nil {
		return r.(*model.Reader), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStripe) CreateConnectionToken(ctx context.Context, locationID string) (string, error) {
	args := m.Called(ctx, locationID)
	return args.String(0), args.Error(1)
}

func (m *mockStripe) CreatePaymentIntent(ctx context.Context, params model.PaymentIntentParams) (*model.PaymentIntent, error) {
	return m.intent(m.Called(ctx, params))
}

func (m *mockStripe) CapturePaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	return m.intent(m.Called(ctx, id))
}

func (m *mockStripe) CancelPaymentIntent(ctx context.Context, id string) (*model.PaymentIntent, error) {
	return m.intent(m.Called(ctx, id))
}

func (m *mockStripe) ListReaders(ctx context.Context, locationID string) ([]model.Reader, error) {
	args := m.Called(ctx, locationID)
	return args.Get(0).([]model.Reader), args.Error(1)
}

func (m *mockStripe) ListLocations(ctx context.Context) ([]model.TerminalLocation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.TerminalLocation), args.Error(1)
}

func (m *mockStripe) ProcessPaymentIntent(ctx context.Context, readerID, intentID string) (*model.Reader, error) {
	return m.reader(m.Called(ctx, readerID, intentID))
}

func (m *mockStripe) CancelReaderAction(ctx context.Context, readerID string) (*model.Reader, error) {
	return m.reader(m.Called(ctx, readerID))
}

func (m *mockStripe) PresentTestPaymentMethod(ctx context.Context, readerID string) (*model.Reader, error) {
	return m.reader(m.Called(ctx, readerID))
}

// ---------- Mock OAuthFlow ----------

type mockOAuth struct{ mock.Mock }

func (m *mockOAuth) token(args mock.Arguments) (*ghl.Token, error) {
	if t := args.Get(0); t != nil {
		return t.(*ghl.Token), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOAuth) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *mockOAuth) Exchange(ctx context.Context, code string) (*ghl.Token, error) {
	return m.token(m.Called(ctx, code))
}

func (m *mockOAuth) Token() (*ghl.Token, error) {
	return m.token(m.Called())
}

func (m *mockOAuth) Refresh(ctx context.Context) (*ghl.Token, error) {
	return m.token(m.Called(ctx))
}
