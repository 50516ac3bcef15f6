package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DrugRepository interface {
	Create(ctx context.Context, drug *model.Drug) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Drug, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Drug, int64, error)
}

type drugRepository struct {
	db *gorm.DB
}

func NewDrugRepository(db *gorm.DB) DrugRepository {
	return &drugRepository{db: db}
}

func (r *drugRepository) Create(ctx context.Context, drug *model.Drug) error {
	return GetDB(ctx, r.db).Create(drug).Error
}

func (r *drugRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Drug, error) {
	var drug model.Drug
	if err := GetDB(ctx, r.db).First(&drug, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &drug, nil
}

func (r *drugRepository) List(ctx context.Context, page, limit int, search string) ([]model.Drug, int64, error) {
	var drugs []model.Drug
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Drug{})
	if search != "" {
		db = db.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&drugs).Error; err != nil {
		return nil, 0, err
	}

	return drugs, total, nil
}
