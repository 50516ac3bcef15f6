package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Vendor, error)
	List(ctx context.Context, page, limit int, verificationStatus string) ([]model.Vendor, int64, error)
	Update(ctx context.Context, vendor *model.Vendor) error

	CreateProduct(ctx context.Context, product *model.VendorProduct) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*model.VendorProduct, error)
	SaveProduct(ctx context.Context, product *model.VendorProduct) error
	ListProducts(ctx context.Context, vendorID uuid.UUID, page, limit int) ([]model.VendorProduct, int64, error)
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) error {
	return GetDB(ctx, r.db).Create(vendor).Error
}

func (r *vendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := GetDB(ctx, r.db).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) List(ctx context.Context, page, limit int, verificationStatus string) ([]model.Vendor, int64, error) {
	var vendors []model.Vendor
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Vendor{})
	if verificationStatus != "" {
		db = db.Where("verification_status = ?", verificationStatus)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&vendors).Error; err != nil {
		return nil, 0, err
	}

	return vendors, total, nil
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) error {
	return GetDB(ctx, r.db).Save(vendor).Error
}

func (r *vendorRepository) CreateProduct(ctx context.Context, product *model.VendorProduct) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *vendorRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*model.VendorProduct, error) {
	var product model.VendorProduct
	if err := GetDB(ctx, r.db).Preload("Drug").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *vendorRepository) SaveProduct(ctx context.Context, product *model.VendorProduct) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *vendorRepository) ListProducts(ctx context.Context, vendorID uuid.UUID, page, limit int) ([]model.VendorProduct, int64, error) {
	var products []model.VendorProduct
	var total int64

	db := GetDB(ctx, r.db).Model(&model.VendorProduct{}).Where("vendor_id = ?", vendorID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := GetDB(ctx, r.db).Preload("Drug").
		Where("vendor_id = ?", vendorID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
