package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	Save(ctx context.Context, po *model.PurchaseOrder) error
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.PurchaseOrder, int64, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, status string, page, limit int) ([]model.PurchaseOrder, int64, error)
	HasOpenAutoPO(ctx context.Context, pharmacyID, drugID uuid.UUID) (bool, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, po *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(po).Error
}

func (r *purchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := GetDB(ctx, r.db).Preload("Drug").Preload("Vendor").First(&po, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) Save(ctx context.Context, po *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Save(po).Error
}

func (r *purchaseOrderRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.PurchaseOrder, int64, error) {
	var pos []model.PurchaseOrder
	var total int64

	db := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).Where("pharmacy_id = ?", pharmacyID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := GetDB(ctx, r.db).Preload("Drug").Preload("Vendor").
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, err
	}

	return pos, total, nil
}

func (r *purchaseOrderRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, status string, page, limit int) ([]model.PurchaseOrder, int64, error) {
	var pos []model.PurchaseOrder
	var total int64

	db := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).Where("vendor_id = ?", vendorID)
	if status != "" {
		db = db.Where("approval_status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := GetDB(ctx, r.db).Preload("Drug").Preload("Pharmacy").Where("vendor_id = ?", vendorID)
	if status != "" {
		fetch = fetch.Where("approval_status = ?", status)
	}
	offset := (page - 1) * limit
	if err := fetch.Order("created_at desc").Offset(offset).Limit(limit).Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	return pos, total, nil
}

// HasOpenAutoPO reports whether an unfulfilled auto purchase order already
// covers this pharmacy/drug pair, so sweeps do not raise duplicates.
func (r *purchaseOrderRepository) HasOpenAutoPO(ctx context.Context, pharmacyID, drugID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Where("pharmacy_id = ? AND drug_id = ? AND trigger = ? AND approval_status <> ?",
			pharmacyID, drugID, model.POTriggerAuto, model.POStatusFulfilled).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
