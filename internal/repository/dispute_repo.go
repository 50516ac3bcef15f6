package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DisputeRepository interface {
	Create(ctx context.Context, dispute *model.Dispute) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Dispute, error)
	Save(ctx context.Context, dispute *model.Dispute) error
	List(ctx context.Context, status string, page, limit int) ([]model.Dispute, int64, error)
}

type disputeRepository struct {
	db *gorm.DB
}

func NewDisputeRepository(db *gorm.DB) DisputeRepository {
	return &disputeRepository{db: db}
}

func (r *disputeRepository) Create(ctx context.Context, dispute *model.Dispute) error {
	return GetDB(ctx, r.db).Create(dispute).Error
}

func (r *disputeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Dispute, error) {
	var dispute model.Dispute
	if err := GetDB(ctx, r.db).Preload("Pharmacy").Preload("Vendor").First(&dispute, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dispute, nil
}

func (r *disputeRepository) Save(ctx context.Context, dispute *model.Dispute) error {
	return GetDB(ctx, r.db).Save(dispute).Error
}

func (r *disputeRepository) List(ctx context.Context, status string, page, limit int) ([]model.Dispute, int64, error) {
	var disputes []model.Dispute
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Dispute{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := GetDB(ctx, r.db).Preload("Pharmacy").Preload("Vendor")
	if status != "" {
		fetch = fetch.Where("status = ?", status)
	}
	offset := (page - 1) * limit
	if err := fetch.Order("created_at desc").Offset(offset).Limit(limit).Find(&disputes).Error; err != nil {
		return nil, 0, err
	}

	return disputes, total, nil
}
