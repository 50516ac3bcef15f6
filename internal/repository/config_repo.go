package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigRepository interface {
	Get(ctx context.Context, key string) (*model.PlatformConfig, error)
	Upsert(ctx context.Context, cfg *model.PlatformConfig) error
	List(ctx context.Context) ([]model.PlatformConfig, error)
}

type configRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Get(ctx context.Context, key string) (*model.PlatformConfig, error) {
	var cfg model.PlatformConfig
	if err := GetDB(ctx, r.db).Where("key = ?", key).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *configRepository) Upsert(ctx context.Context, cfg *model.PlatformConfig) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(cfg).Error
}

func (r *configRepository) List(ctx context.Context) ([]model.PlatformConfig, error) {
	var configs []model.PlatformConfig
	if err := GetDB(ctx, r.db).Order("key asc").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}
