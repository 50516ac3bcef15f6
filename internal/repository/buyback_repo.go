package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BuybackRepository interface {
	Create(ctx context.Context, req *model.BuybackRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BuybackRequest, error)
	Save(ctx context.Context, req *model.BuybackRequest) error
	List(ctx context.Context, status string, page, limit int) ([]model.BuybackRequest, int64, error)
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.BuybackRequest, int64, error)
}

type buybackRepository struct {
	db *gorm.DB
}

func NewBuybackRepository(db *gorm.DB) BuybackRepository {
	return &buybackRepository{db: db}
}

func (r *buybackRepository) Create(ctx context.Context, req *model.BuybackRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *buybackRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BuybackRequest, error) {
	var req model.BuybackRequest
	if err := GetDB(ctx, r.db).Preload("Drug").Preload("Pharmacy").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *buybackRepository) Save(ctx context.Context, req *model.BuybackRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *buybackRepository) List(ctx context.Context, status string, page, limit int) ([]model.BuybackRequest, int64, error) {
	var requests []model.BuybackRequest
	var total int64

	db := GetDB(ctx, r.db).Model(&model.BuybackRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := GetDB(ctx, r.db).Preload("Drug").Preload("Pharmacy")
	if status != "" {
		fetch = fetch.Where("status = ?", status)
	}
	offset := (page - 1) * limit
	if err := fetch.Order("created_at desc").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *buybackRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, page, limit int) ([]model.BuybackRequest, int64, error) {
	var requests []model.BuybackRequest
	var total int64

	db := GetDB(ctx, r.db).Model(&model.BuybackRequest{}).Where("pharmacy_id = ?", pharmacyID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := GetDB(ctx, r.db).Preload("Drug").
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
