package service

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stand-ins. Each method defers to its function field
// when set and otherwise returns a zero value, so a test only wires the
// calls its path touches.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakePharmacyRepo struct {
	findByUserID        func(userID uuid.UUID) (*model.Pharmacy, error)
	findByID            func(id uuid.UUID) (*model.Pharmacy, error)
	findByIDForUpdate   func(id uuid.UUID) (*model.Pharmacy, error)
	updateWalletBalance func(id uuid.UUID, balance decimal.Decimal) error
}

func (f *fakePharmacyRepo) Create(ctx context.Context, pharmacy *model.Pharmacy) error { return nil }
func (f *fakePharmacyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error) {
	if f.findByID != nil {
		return f.findByID(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakePharmacyRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Pharmacy, error) {
	if f.findByUserID != nil {
		return f.findByUserID(userID)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakePharmacyRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error) {
	if f.findByIDForUpdate != nil {
		return f.findByIDForUpdate(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakePharmacyRepo) List(ctx context.Context, page, limit int, search string) ([]model.Pharmacy, int64, error) {
	return nil, 0, nil
}
func (f *fakePharmacyRepo) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (f *fakePharmacyRepo) UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	if f.updateWalletBalance != nil {
		return f.updateWalletBalance(id, balance)
	}
	return nil
}
func (f *fakePharmacyRepo) CreateDocument(ctx context.Context, doc *model.Document) error { return nil }
func (f *fakePharmacyRepo) ListDocuments(ctx context.Context, pharmacyID uuid.UUID) ([]model.Document, error) {
	return nil, nil
}

type fakeInventoryRepo struct {
	findByID          func(id uuid.UUID) (*model.InventoryLot, error)
	findByIDForUpdate func(id uuid.UUID) (*model.InventoryLot, error)
	save              func(lot *model.InventoryLot) error
}

func (f *fakeInventoryRepo) Create(ctx context.Context, lot *model.InventoryLot) error { return nil }
func (f *fakeInventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryLot, error) {
	if f.findByID != nil {
		return f.findByID(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeInventoryRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryLot, error) {
	if f.findByIDForUpdate != nil {
		return f.findByIDForUpdate(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeInventoryRepo) Save(ctx context.Context, lot *model.InventoryLot) error {
	if f.save != nil {
		return f.save(lot)
	}
	return nil
}
func (f *fakeInventoryRepo) UpdateStock(ctx context.Context, id uuid.UUID, stockLevel int) error {
	return nil
}
func (f *fakeInventoryRepo) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.InventoryLot, int64, error) {
	return nil, 0, nil
}
func (f *fakeInventoryRepo) ListByExpiry(ctx context.Context, pharmacyID uuid.UUID) ([]model.InventoryLot, error) {
	return nil, nil
}
func (f *fakeInventoryRepo) FindPlatformLot(ctx context.Context, pharmacyID, drugID uuid.UUID, batchNumber string) (*model.InventoryLot, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeInventoryRepo) ListRestockCandidates(ctx context.Context) ([]model.InventoryLot, error) {
	return nil, nil
}

type fakePOSRepo struct {
	createSale func(sale *model.POSSale) error
}

func (f *fakePOSRepo) CreateSale(ctx context.Context, sale *model.POSSale) error {
	if f.createSale != nil {
		return f.createSale(sale)
	}
	return nil
}
func (f *fakePOSRepo) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.POSSale, int64, error) {
	return nil, 0, nil
}

type fakeTransactionRepo struct {
	create func(tx *model.Transaction) error
}

func (f *fakeTransactionRepo) Create(ctx context.Context, tx *model.Transaction) error {
	if f.create != nil {
		return f.create(tx)
	}
	return nil
}
func (f *fakeTransactionRepo) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.Transaction, int64, error) {
	return nil, 0, nil
}

type fakeNotificationRepo struct {
	create           func(n *model.Notification) error
	hasSuggestionFor func(userID uuid.UUID, drugName string) (bool, error)
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if f.create != nil {
		return f.create(n)
	}
	return nil
}
func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}
func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}
func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error { return nil }
func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error  { return nil }
func (f *fakeNotificationRepo) HasSuggestionFor(ctx context.Context, userID uuid.UUID, drugName string) (bool, error) {
	if f.hasSuggestionFor != nil {
		return f.hasSuggestionFor(userID, drugName)
	}
	return false, nil
}

type fakeUserRepo struct {
	listByRole func(role string) ([]model.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	if f.listByRole != nil {
		return f.listByRole(role)
	}
	return nil, nil
}
func (f *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return nil
}
func (f *fakeUserRepo) FindRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error { return nil }
func (f *fakeUserRepo) CreateOTPSession(ctx context.Context, session *model.OTPSession) error {
	return nil
}
func (f *fakeUserRepo) FindActiveOTPSession(ctx context.Context, userID uuid.UUID) (*model.OTPSession, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) MarkOTPVerified(ctx context.Context, sessionID uuid.UUID) error { return nil }

type fakeBuybackRepo struct {
	create   func(req *model.BuybackRequest) error
	findByID func(id uuid.UUID) (*model.BuybackRequest, error)
	save     func(req *model.BuybackRequest) error
}

func (f *fakeBuybackRepo) Create(ctx context.Context, req *model.BuybackRequest) error {
	if f.create != nil {
		return f.create(req)
	}
	return nil
}
func (f *fakeBuybackRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BuybackRequest, error) {
	if f.findByID != nil {
		return f.findByID(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBuybackRepo) Save(ctx context.Context, req *model.BuybackRequest) error {
	if f.save != nil {
		return f.save(req)
	}
	return nil
}
func (f *fakeBuybackRepo) List(ctx context.Context, status string, page, limit int) ([]model.BuybackRequest, int64, error) {
	return nil, 0, nil
}
func (f *fakeBuybackRepo) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.BuybackRequest, int64, error) {
	return nil, 0, nil
}

type fakeListingRepo struct {
	create            func(listing *model.MarketplaceListing) error
	findByIDForUpdate func(id uuid.UUID) (*model.MarketplaceListing, error)
	save              func(listing *model.MarketplaceListing) error
}

func (f *fakeListingRepo) Create(ctx context.Context, listing *model.MarketplaceListing) error {
	if f.create != nil {
		return f.create(listing)
	}
	return nil
}
func (f *fakeListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MarketplaceListing, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeListingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MarketplaceListing, error) {
	if f.findByIDForUpdate != nil {
		return f.findByIDForUpdate(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeListingRepo) Save(ctx context.Context, listing *model.MarketplaceListing) error {
	if f.save != nil {
		return f.save(listing)
	}
	return nil
}
func (f *fakeListingRepo) ListActive(ctx context.Context, page, limit int, search string) ([]model.MarketplaceListing, int64, error) {
	return nil, 0, nil
}
func (f *fakeListingRepo) FindActiveByVendorDrug(ctx context.Context, vendorID, drugID uuid.UUID) (*model.MarketplaceListing, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeOrderRepo struct {
	create func(order *model.Order) error
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *model.Order) error {
	if f.create != nil {
		return f.create(order)
	}
	return nil
}
func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeOrderRepo) Save(ctx context.Context, order *model.Order) error { return nil }
func (f *fakeOrderRepo) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, status string, page, limit int) ([]model.Order, int64, error) {
	return nil, 0, nil
}
func (f *fakeOrderRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, status string, page, limit int) ([]model.Order, int64, error) {
	return nil, 0, nil
}
func (f *fakeOrderRepo) List(ctx context.Context, status string, page, limit int) ([]model.Order, int64, error) {
	return nil, 0, nil
}

type fakeVendorRepo struct {
	findByID func(id uuid.UUID) (*model.Vendor, error)
}

func (f *fakeVendorRepo) Create(ctx context.Context, vendor *model.Vendor) error { return nil }
func (f *fakeVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	if f.findByID != nil {
		return f.findByID(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeVendorRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Vendor, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeVendorRepo) List(ctx context.Context, page, limit int, verificationStatus string) ([]model.Vendor, int64, error) {
	return nil, 0, nil
}
func (f *fakeVendorRepo) Update(ctx context.Context, vendor *model.Vendor) error { return nil }
func (f *fakeVendorRepo) CreateProduct(ctx context.Context, product *model.VendorProduct) error {
	return nil
}
func (f *fakeVendorRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*model.VendorProduct, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeVendorRepo) SaveProduct(ctx context.Context, product *model.VendorProduct) error {
	return nil
}
func (f *fakeVendorRepo) ListProducts(ctx context.Context, vendorID uuid.UUID, page, limit int) ([]model.VendorProduct, int64, error) {
	return nil, 0, nil
}

type fakeConfigRepo struct {
	get func(key string) (*model.PlatformConfig, error)
}

func (f *fakeConfigRepo) Get(ctx context.Context, key string) (*model.PlatformConfig, error) {
	if f.get != nil {
		return f.get(key)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeConfigRepo) Upsert(ctx context.Context, cfg *model.PlatformConfig) error { return nil }
func (f *fakeConfigRepo) List(ctx context.Context) ([]model.PlatformConfig, error)    { return nil, nil }

type fakeDrugRepo struct{}

func (fakeDrugRepo) Create(ctx context.Context, drug *model.Drug) error { return nil }
func (fakeDrugRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Drug, error) {
	return nil, gorm.ErrRecordNotFound
}
func (fakeDrugRepo) List(ctx context.Context, page, limit int, search string) ([]model.Drug, int64, error) {
	return nil, 0, nil
}

type fakeAuditRepo struct {
	logged []model.AuditLog
}

func (f *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	f.logged = append(f.logged, *entry)
	return nil
}
func (f *fakeAuditRepo) List(ctx context.Context, eventType string, page, limit int) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

type fakeRestock struct {
	raised []string
}

func (f *fakeRestock) RaiseIfDue(ctx context.Context, lotID string) (bool, error) {
	f.raised = append(f.raised, lotID)
	return false, nil
}
func (f *fakeRestock) SweepOnce(ctx context.Context) (int, error) { return 0, nil }
