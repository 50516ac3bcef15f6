package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type UpsertProductRequest struct {
	DrugID         string          `json:"drug_id" binding:"required,uuid"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	StockAvailable int             `json:"stock_available" binding:"gte=0"`
	MOQ            int             `json:"moq" binding:"omitempty,gte=1"`
	LeadTimeDays   int             `json:"lead_time_days" binding:"omitempty,gte=0"`
	Status         string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

type SubmitVendorDocumentRequest struct {
	DocType string `json:"doc_type" binding:"required,oneof=cac nafdac license"`
	Name    string `json:"name" binding:"required"`
}

type VendorResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Location           string    `json:"location"`
	VerificationStatus string    `json:"verification_status"`
	CACStatus          string    `json:"cac_status"`
	NAFDACStatus       string    `json:"nafdac_status"`
	LicenseStatus      string    `json:"license_status"`
	CreatedAt          time.Time `json:"created_at"`
}

type VendorProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	DrugID         uuid.UUID       `json:"drug_id"`
	DrugName       string          `json:"drug_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	StockAvailable int             `json:"stock_available"`
	MOQ            int             `json:"moq"`
	LeadTimeDays   int             `json:"lead_time_days"`
	Status         string          `json:"status"`
}

type VendorService interface {
	Profile(ctx context.Context, userID string) (*VendorResponse, error)
	ListProducts(ctx context.Context, userID string, page, limit int) ([]VendorProductResponse, int64, error)
	CreateProduct(ctx context.Context, userID string, req UpsertProductRequest) (*VendorProductResponse, error)
	UpdateProduct(ctx context.Context, userID, productID string, req UpsertProductRequest) (*VendorProductResponse, error)
	SubmitVerificationDocument(ctx context.Context, userID string, req SubmitVendorDocumentRequest) (*VendorResponse, error)
}

type vendorService struct {
	vendorRepo  repository.VendorRepository
	drugRepo    repository.DrugRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewVendorService(
	vendorRepo repository.VendorRepository,
	drugRepo repository.DrugRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) VendorService {
	return &vendorService{
		vendorRepo:  vendorRepo,
		drugRepo:    drugRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

func mapVendor(v *model.Vendor) VendorResponse {
	return VendorResponse{
		ID:                 v.ID,
		Name:               v.Name,
		Location:           v.Location,
		VerificationStatus: v.VerificationStatus,
		CACStatus:          v.CACStatus,
		NAFDACStatus:       v.NAFDACStatus,
		LicenseStatus:      v.LicenseStatus,
		CreatedAt:          v.CreatedAt,
	}
}

func mapVendorProduct(p *model.VendorProduct) VendorProductResponse {
	return VendorProductResponse{
		ID:             p.ID,
		DrugID:         p.DrugID,
		DrugName:       p.Drug.Name,
		UnitPrice:      p.UnitPrice,
		StockAvailable: p.StockAvailable,
		MOQ:            p.MOQ,
		LeadTimeDays:   p.LeadTimeDays,
		Status:         p.Status,
	}
}

func (s *vendorService) Profile(ctx context.Context, userID string) (*VendorResponse, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, err
	}
	res := mapVendor(vendor)
	return &res, nil
}

func (s *vendorService) ListProducts(ctx context.Context, userID string, page, limit int) ([]VendorProductResponse, int64, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, 0, err
	}

	products, total, err := s.vendorRepo.ListProducts(ctx, vendor.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]VendorProductResponse, 0, len(products))
	for i := range products {
		res = append(res, mapVendorProduct(&products[i]))
	}
	return res, total, nil
}

func (s *vendorService) CreateProduct(ctx context.Context, userID string, req UpsertProductRequest) (*VendorProductResponse, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, err
	}

	drugID, err := uuid.Parse(req.DrugID)
	if err != nil {
		return nil, errors.New("invalid drug id")
	}
	drug, err := s.drugRepo.FindByID(ctx, drugID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("drug not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	product := &model.VendorProduct{
		VendorID:       vendor.ID,
		DrugID:         drug.ID,
		UnitPrice:      req.UnitPrice.Round(2),
		StockAvailable: req.StockAvailable,
		MOQ:            req.MOQ,
		LeadTimeDays:   req.LeadTimeDays,
		Status:         req.Status,
	}
	if product.MOQ <= 0 {
		product.MOQ = 1
	}
	if product.Status == "" {
		product.Status = model.ProductActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.CreateProduct(txCtx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		product.Drug = *drug
		return s.syncListing(txCtx, vendor, product)
	})
	if err != nil {
		return nil, err
	}

	res := mapVendorProduct(product)
	return &res, nil
}

func (s *vendorService) UpdateProduct(ctx context.Context, userID, productID string, req UpsertProductRequest) (*VendorProductResponse, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, errors.New("invalid product id")
	}
	product, err := s.vendorRepo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product.VendorID != vendor.ID {
		return nil, ErrNotOwner
	}

	product.UnitPrice = req.UnitPrice.Round(2)
	product.StockAvailable = req.StockAvailable
	if req.MOQ > 0 {
		product.MOQ = req.MOQ
	}
	if req.LeadTimeDays > 0 {
		product.LeadTimeDays = req.LeadTimeDays
	}
	if req.Status != "" {
		product.Status = req.Status
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.SaveProduct(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return s.syncListing(txCtx, vendor, product)
	})
	if err != nil {
		return nil, err
	}

	res := mapVendorProduct(product)
	return &res, nil
}

// syncListing keeps the vendor's marketplace listing in step with the
// catalogue entry. Unverified vendors never reach the marketplace; an
// inactive product retires its listing.
func (s *vendorService) syncListing(ctx context.Context, vendor *model.Vendor, product *model.VendorProduct) error {
	listing, err := s.listingRepo.FindActiveByVendorDrug(ctx, vendor.ID, product.DrugID)
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("database error: %w", err)
	}

	active := product.Status == model.ProductActive &&
		product.StockAvailable > 0 &&
		vendor.VerificationStatus == model.VerificationVerified

	switch {
	case active && exists:
		listing.UnitPrice = product.UnitPrice
		listing.QuantityAvailable = product.StockAvailable
		listing.LeadTimeDays = product.LeadTimeDays
		return s.listingRepo.Save(ctx, listing)
	case active:
		listing = &model.MarketplaceListing{
			DrugID:            product.DrugID,
			VendorID:          &vendor.ID,
			Source:            model.OrderSourceVendor,
			UnitPrice:         product.UnitPrice,
			QuantityAvailable: product.StockAvailable,
			LeadTimeDays:      product.LeadTimeDays,
			Status:            model.ListingActive,
		}
		return s.listingRepo.Create(ctx, listing)
	case exists:
		listing.QuantityAvailable = 0
		listing.Status = model.ListingSold
		return s.listingRepo.Save(ctx, listing)
	}
	return nil
}

func (s *vendorService) SubmitVerificationDocument(ctx context.Context, userID string, req SubmitVendorDocumentRequest) (*VendorResponse, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, err
	}

	switch req.DocType {
	case model.VendorDocCAC:
		vendor.CACStatus = model.VerificationPending
	case model.VendorDocNAFDAC:
		vendor.NAFDACStatus = model.VerificationPending
	case model.VendorDocLicense:
		vendor.LicenseStatus = model.VerificationPending
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.Update(txCtx, vendor); err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}
		msg := fmt.Sprintf("%s submitted a %s document for review", vendor.Name, req.DocType)
		return notifyAdmins(txCtx, s.userRepo, s.notifRepo, &notices, msg, model.NotifySystem)
	})
	if err != nil {
		return nil, err
	}

	notices.flush(s.hub)
	res := mapVendor(vendor)
	return &res, nil
}
