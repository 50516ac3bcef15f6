package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	Create(ctx context.Context, lot *model.InventoryLot) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryLot, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryLot, error)
	Save(ctx context.Context, lot *model.InventoryLot) error
	UpdateStock(ctx context.Context, id uuid.UUID, stockLevel int) error
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.InventoryLot, int64, error)
	ListByExpiry(ctx context.Context, pharmacyID uuid.UUID) ([]model.InventoryLot, error)
	FindPlatformLot(ctx context.Context, pharmacyID, drugID uuid.UUID, batchNumber string) (*model.InventoryLot, error)
	ListRestockCandidates(ctx context.Context) ([]model.InventoryLot, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, lot *model.InventoryLot) error {
	return GetDB(ctx, r.db).Create(lot).Error
}

func (r *inventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryLot, error) {
	var lot model.InventoryLot
	if err := GetDB(ctx, r.db).Preload("Drug").First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// FindByIDForUpdate locks the lot row so concurrent sales cannot oversell it.
// The lock covers the lot row only; Drug is read alongside so callers can
// price and describe the sale.
func (r *inventoryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryLot, error) {
	var lot model.InventoryLot
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Drug").
		Where("id = ?", id).First(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *inventoryRepository) Save(ctx context.Context, lot *model.InventoryLot) error {
	return GetDB(ctx, r.db).Save(lot).Error
}

func (r *inventoryRepository) UpdateStock(ctx context.Context, id uuid.UUID, stockLevel int) error {
	return GetDB(ctx, r.db).Model(&model.InventoryLot{}).Where("id = ?", id).Update("stock_level", stockLevel).Error
}

func (r *inventoryRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.InventoryLot, int64, error) {
	var lots []model.InventoryLot
	var total int64

	db := GetDB(ctx, r.db).Model(&model.InventoryLot{}).Where("pharmacy_id = ?", pharmacyID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := GetDB(ctx, r.db).Preload("Drug").
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&lots).Error
	if err != nil {
		return nil, 0, err
	}

	return lots, total, nil
}

// ListByExpiry returns all of a pharmacy's lots ordered soonest-expiring
// first; the expiry tracker does its own window bucketing.
func (r *inventoryRepository) ListByExpiry(ctx context.Context, pharmacyID uuid.UUID) ([]model.InventoryLot, error) {
	var lots []model.InventoryLot
	err := GetDB(ctx, r.db).Preload("Drug").
		Where("pharmacy_id = ?", pharmacyID).
		Order("expiry_date asc").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// FindPlatformLot locates an existing platform-sourced lot to replenish on
// delivery instead of opening a duplicate batch row.
func (r *inventoryRepository) FindPlatformLot(ctx context.Context, pharmacyID, drugID uuid.UUID, batchNumber string) (*model.InventoryLot, error) {
	var lot model.InventoryLot
	err := GetDB(ctx, r.db).
		Where("pharmacy_id = ? AND drug_id = ? AND batch_number = ? AND is_manual = false", pharmacyID, drugID, batchNumber).
		First(&lot).Error
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *inventoryRepository) ListRestockCandidates(ctx context.Context) ([]model.InventoryLot, error) {
	var lots []model.InventoryLot
	err := GetDB(ctx, r.db).Preload("Drug").
		Where("auto_restock = true AND is_manual = false AND stock_level <= reorder_threshold").
		Find(&lots).Error
	if err != nil {
		return nil, err
	}
	return lots, nil
}
