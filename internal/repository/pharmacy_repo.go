package repository

import (
	"context"

	"github.com/ajedamilola/pharmalink/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PharmacyRepository interface {
	Create(ctx context.Context, pharmacy *model.Pharmacy) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Pharmacy, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Pharmacy, int64, error)
	UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	CreateDocument(ctx context.Context, doc *model.Document) error
	ListDocuments(ctx context.Context, pharmacyID uuid.UUID) ([]model.Document, error)
}

type pharmacyRepository struct {
	db *gorm.DB
}

func NewPharmacyRepository(db *gorm.DB) PharmacyRepository {
	return &pharmacyRepository{db: db}
}

func (r *pharmacyRepository) Create(ctx context.Context, pharmacy *model.Pharmacy) error {
	return GetDB(ctx, r.db).Create(pharmacy).Error
}

func (r *pharmacyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error) {
	var pharmacy model.Pharmacy
	if err := GetDB(ctx, r.db).First(&pharmacy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

func (r *pharmacyRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Pharmacy, error) {
	var pharmacy model.Pharmacy
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&pharmacy).Error; err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

// FindByIDForUpdate takes a row lock so wallet debits and credits serialize.
func (r *pharmacyRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Pharmacy, error) {
	var pharmacy model.Pharmacy
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&pharmacy).Error; err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

func (r *pharmacyRepository) List(ctx context.Context, page, limit int, search string) ([]model.Pharmacy, int64, error) {
	var pharmacies []model.Pharmacy
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Pharmacy{})
	if search != "" {
		db = db.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&pharmacies).Error; err != nil {
		return nil, 0, err
	}

	return pharmacies, total, nil
}

func (r *pharmacyRepository) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Pharmacy{}).Where("id = ?", id).Update("account_status", status).Error
}

func (r *pharmacyRepository) UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Pharmacy{}).Where("id = ?", id).Update("wallet_balance", balance).Error
}

func (r *pharmacyRepository) CreateDocument(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *pharmacyRepository) ListDocuments(ctx context.Context, pharmacyID uuid.UUID) ([]model.Document, error) {
	var docs []model.Document
	err := GetDB(ctx, r.db).Where("pharmacy_id = ?", pharmacyID).Order("created_at desc").Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}
