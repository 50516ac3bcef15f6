package service

import (
	"context"
	"time"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DTOs
type CreateDocumentRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=invoice purchase_order buyback_receipt statement"`
}

type PharmacyResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Location           string          `json:"location"`
	WalletBalance      decimal.Decimal `json:"wallet_balance"`
	AccountStatus      string          `json:"account_status"`
	PCNLicenseStatus   string          `json:"pcn_license_status"`
	DirectDebitEnabled bool            `json:"direct_debit_enabled"`
	CreatedAt          time.Time       `json:"created_at"`
}

type DocumentResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type PharmacyService interface {
	Profile(ctx context.Context, userID string) (*PharmacyResponse, error)
	ListDocuments(ctx context.Context, userID string) ([]DocumentResponse, error)
	CreateDocument(ctx context.Context, userID string, req CreateDocumentRequest) (*DocumentResponse, error)
}

type pharmacyService struct {
	pharmacyRepo repository.PharmacyRepository
}

func NewPharmacyService(pharmacyRepo repository.PharmacyRepository) PharmacyService {
	return &pharmacyService{pharmacyRepo: pharmacyRepo}
}

func mapPharmacy(p *model.Pharmacy) PharmacyResponse {
	return PharmacyResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Location:           p.Location,
		WalletBalance:      p.WalletBalance,
		AccountStatus:      p.AccountStatus,
		PCNLicenseStatus:   p.PCNLicenseStatus,
		DirectDebitEnabled: p.DirectDebitEnabled,
		CreatedAt:          p.CreatedAt,
	}
}

func (s *pharmacyService) Profile(ctx context.Context, userID string) (*PharmacyResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}
	res := mapPharmacy(pharmacy)
	return &res, nil
}

func (s *pharmacyService) ListDocuments(ctx context.Context, userID string) ([]DocumentResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	docs, err := s.pharmacyRepo.ListDocuments(ctx, pharmacy.ID)
	if err != nil {
		return nil, err
	}

	res := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		res = append(res, DocumentResponse{ID: d.ID, Name: d.Name, Type: d.Type, CreatedAt: d.CreatedAt})
	}
	return res, nil
}

func (s *pharmacyService) CreateDocument(ctx context.Context, userID string, req CreateDocumentRequest) (*DocumentResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		PharmacyID: pharmacy.ID,
		Name:       req.Name,
		Type:       req.Type,
	}
	if err := s.pharmacyRepo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return &DocumentResponse{ID: doc.ID, Name: doc.Name, Type: doc.Type, CreatedAt: doc.CreatedAt}, nil
}
