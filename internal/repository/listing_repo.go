package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.MarketplaceListing) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MarketplaceListing, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MarketplaceListing, error)
	Save(ctx context.Context, listing *model.MarketplaceListing) error
	ListActive(ctx context.Context, page, limit int, search string) ([]model.MarketplaceListing, int64, error)
	FindActiveByVendorDrug(ctx context.Context, vendorID, drugID uuid.UUID) (*model.MarketplaceListing, error)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *model.MarketplaceListing) error {
	return GetDB(ctx, r.db).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MarketplaceListing, error) {
	var listing model.MarketplaceListing
	if err := GetDB(ctx, r.db).Preload("Drug").Preload("Vendor").First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindByIDForUpdate locks the listing so checkout quantity decrements
// serialize. The lock covers the listing row only; Drug and Vendor ride
// along for order rows and notifications.
func (r *listingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MarketplaceListing, error) {
	var listing model.MarketplaceListing
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Drug").Preload("Vendor").
		Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Save(ctx context.Context, listing *model.MarketplaceListing) error {
	return GetDB(ctx, r.db).Save(listing).Error
}

func (r *listingRepository) ListActive(ctx context.Context, page, limit int, search string) ([]model.MarketplaceListing, int64, error) {
	var listings []model.MarketplaceListing
	var total int64

	db := GetDB(ctx, r.db).Model(&model.MarketplaceListing{}).
		Where("status = ?", model.ListingActive)
	if search != "" {
		db = db.Joins("JOIN drugs ON drugs.id = marketplace_listings.drug_id").
			Where("drugs.name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := GetDB(ctx, r.db).Preload("Drug").Preload("Vendor").Preload("Pharmacy").
		Where("status = ?", model.ListingActive)
	if search != "" {
		fetch = fetch.Joins("JOIN drugs ON drugs.id = marketplace_listings.drug_id").
			Where("drugs.name ILIKE ?", "%"+search+"%")
	}
	offset := (page - 1) * limit
	if err := fetch.Order("marketplace_listings.created_at desc").Offset(offset).Limit(limit).Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

func (r *listingRepository) FindActiveByVendorDrug(ctx context.Context, vendorID, drugID uuid.UUID) (*model.MarketplaceListing, error) {
	var listing model.MarketplaceListing
	err := GetDB(ctx, r.db).
		Where("vendor_id = ? AND drug_id = ? AND status = ?", vendorID, drugID, model.ListingActive).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
