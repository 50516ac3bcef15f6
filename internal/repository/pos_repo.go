package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type POSRepository interface {
	CreateSale(ctx context.Context, sale *model.POSSale) error
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.POSSale, int64, error)
}

type posRepository struct {
	db *gorm.DB
}

func NewPOSRepository(db *gorm.DB) POSRepository {
	return &posRepository{db: db}
}

func (r *posRepository) CreateSale(ctx context.Context, sale *model.POSSale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *posRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.POSSale, int64, error) {
	var sales []model.POSSale
	var total int64

	db := GetDB(ctx, r.db).Model(&model.POSSale{}).Where("pharmacy_id = ?", pharmacyID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := GetDB(ctx, r.db).Preload("Drug").
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}
