package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"
	"github.com/ajedamilola/pharmalink/internal/shelflife"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotEligible     = errors.New("lot is not eligible for buy-back")
	ErrBuybackNotOpen  = errors.New("buy-back request is not pending")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and the available stock")
	ErrLotExpired      = errors.New("expired lots cannot be submitted for buy-back")
	ErrBuybackBackward = errors.New("buy-back requests only move forward")
)

// buybackChain orders the forward progression; declined sits outside it.
var buybackChain = []string{
	model.BuybackPending,
	model.BuybackAdminApproved,
	model.BuybackVendorMatched,
	model.BuybackCompleted,
}

func buybackIndex(status string) int {
	for i, s := range buybackChain {
		if s == status {
			return i
		}
	}
	return -1
}

// DTOs
type SubmitBuybackRequest struct {
	LotID    string `json:"lot_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type BuybackResponse struct {
	ID                uuid.UUID       `json:"id"`
	PharmacyID        uuid.UUID       `json:"pharmacy_id"`
	DrugID            uuid.UUID       `json:"drug_id"`
	DrugName          string          `json:"drug_name"`
	Quantity          int             `json:"quantity"`
	OriginalUnitPrice decimal.Decimal `json:"original_unit_price"`
	BuybackUnitPrice  decimal.Decimal `json:"buyback_unit_price"`
	ExpiryDate        time.Time       `json:"expiry_date"`
	RemainingShelfPct int             `json:"remaining_shelf_pct"`
	AdminSuggestion   bool            `json:"admin_suggestion"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

type AdvanceBuybackRequest struct {
	Status string `json:"status" binding:"required,oneof=vendor_matched completed"`
}

type SuggestBuybackRequest struct {
	LotID string `json:"lot_id" binding:"required,uuid"`
}

type BuybackService interface {
	Submit(ctx context.Context, userID string, req SubmitBuybackRequest) (*BuybackResponse, error)
	ListMine(ctx context.Context, userID string, page, limit int) ([]BuybackResponse, int64, error)
	List(ctx context.Context, status string, page, limit int) ([]BuybackResponse, int64, error)
	Approve(ctx context.Context, adminUserID, requestID string) (*BuybackResponse, error)
	Decline(ctx context.Context, adminUserID, requestID string) (*BuybackResponse, error)
	Advance(ctx context.Context, adminUserID, requestID string, req AdvanceBuybackRequest) (*BuybackResponse, error)
	Suggest(ctx context.Context, adminUserID string, req SuggestBuybackRequest) error
}

type buybackService struct {
	buybackRepo   repository.BuybackRepository
	inventoryRepo repository.InventoryRepository
	listingRepo   repository.ListingRepository
	pharmacyRepo  repository.PharmacyRepository
	userRepo      repository.UserRepository
	notifRepo     repository.NotificationRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewBuybackService(
	buybackRepo repository.BuybackRepository,
	inventoryRepo repository.InventoryRepository,
	listingRepo repository.ListingRepository,
	pharmacyRepo repository.PharmacyRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) BuybackService {
	return &buybackService{
		buybackRepo:   buybackRepo,
		inventoryRepo: inventoryRepo,
		listingRepo:   listingRepo,
		pharmacyRepo:  pharmacyRepo,
		userRepo:      userRepo,
		notifRepo:     notifRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

func mapBuyback(req *model.BuybackRequest) BuybackResponse {
	return BuybackResponse{
		ID:                req.ID,
		PharmacyID:        req.PharmacyID,
		DrugID:            req.DrugID,
		DrugName:          req.Drug.Name,
		Quantity:          req.Quantity,
		OriginalUnitPrice: req.OriginalUnitPrice,
		BuybackUnitPrice:  req.BuybackUnitPrice,
		ExpiryDate:        req.ExpiryDate,
		RemainingShelfPct: req.RemainingShelfPct,
		AdminSuggestion:   req.AdminSuggestion,
		Status:            req.Status,
		CreatedAt:         req.CreatedAt,
	}
}

func (s *buybackService) Submit(ctx context.Context, userID string, req SubmitBuybackRequest) (*BuybackResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		return nil, errors.New("invalid lot id")
	}
	lot, err := s.inventoryRepo.FindByID(ctx, lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("lot not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if lot.PharmacyID != pharmacy.ID {
		return nil, ErrNotOwner
	}
	if req.Quantity > lot.StockLevel {
		return nil, ErrInvalidQuantity
	}

	now := time.Now()
	daysLeft := shelflife.DaysLeft(lot.ExpiryDate, now)
	if daysLeft <= 0 {
		return nil, ErrLotExpired
	}
	pct := shelflife.RemainingPercent(lot.Drug.ShelfLifeMonths, lot.ExpiryDate, now)
	if !shelflife.BuybackEligible(pct) {
		return nil, ErrNotEligible
	}

	// A submission that follows an admin nudge for this drug is flagged so
	// the review queue can tell solicited stock apart.
	suggested, _ := s.notifRepo.HasSuggestionFor(ctx, pharmacy.UserID, lot.Drug.Name)

	// Pricing is locked at submission time from the remaining-shelf tier.
	buyback := &model.BuybackRequest{
		PharmacyID:        pharmacy.ID,
		DrugID:            lot.DrugID,
		Quantity:          req.Quantity,
		OriginalUnitPrice: lot.Drug.UnitPrice,
		BuybackUnitPrice:  shelflife.BuybackUnitPrice(lot.Drug.UnitPrice, pct),
		ExpiryDate:        lot.ExpiryDate,
		RemainingShelfPct: pct,
		AdminSuggestion:   suggested,
		Status:            model.BuybackPending,
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.buybackRepo.Create(txCtx, buyback); err != nil {
			return fmt.Errorf("failed to create buy-back request: %w", err)
		}

		msg := fmt.Sprintf("%s submitted a buy-back request for %d x %s (%d%% shelf life left)",
			pharmacy.Name, req.Quantity, lot.Drug.Name, pct)
		if err := notifyAdmins(txCtx, s.userRepo, s.notifRepo, &notices, msg, model.NotifyBuyback); err != nil {
			return fmt.Errorf("failed to notify admins: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notices.flush(s.hub)
	s.hub.BroadcastEvent(ws.EventBuybackUpdated, map[string]any{
		"request_id": buyback.ID.String(),
		"status":     buyback.Status,
	})

	buyback.Drug = lot.Drug
	res := mapBuyback(buyback)
	return &res, nil
}

func (s *buybackService) ListMine(ctx context.Context, userID string, page, limit int) ([]BuybackResponse, int64, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, 0, err
	}
	requests, total, err := s.buybackRepo.ListByPharmacy(ctx, pharmacy.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapBuybacks(requests), total, nil
}

func (s *buybackService) List(ctx context.Context, status string, page, limit int) ([]BuybackResponse, int64, error) {
	requests, total, err := s.buybackRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapBuybacks(requests), total, nil
}

func mapBuybacks(requests []model.BuybackRequest) []BuybackResponse {
	res := make([]BuybackResponse, 0, len(requests))
	for i := range requests {
		res = append(res, mapBuyback(&requests[i]))
	}
	return res
}

// Approve relists the stock on the marketplace at the locked buy-back price.
// The listing, status change, notification and audit row commit atomically.
func (s *buybackService) Approve(ctx context.Context, adminUserID, requestID string) (*BuybackResponse, error) {
	buyback, err := s.findOpenRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	pharmacy, err := s.pharmacyRepo.FindByID(ctx, buyback.PharmacyID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		buyback.Status = model.BuybackAdminApproved
		if err := s.buybackRepo.Save(txCtx, buyback); err != nil {
			return fmt.Errorf("failed to update buy-back request: %w", err)
		}

		listing := &model.MarketplaceListing{
			DrugID:            buyback.DrugID,
			PharmacyID:        &buyback.PharmacyID,
			Source:            model.OrderSourceBuyback,
			UnitPrice:         buyback.BuybackUnitPrice,
			DiscountPct:       shelflife.DiscountPercent(buyback.OriginalUnitPrice, buyback.BuybackUnitPrice),
			QuantityAvailable: buyback.Quantity,
			Status:            model.ListingActive,
		}
		if err := s.listingRepo.Create(txCtx, listing); err != nil {
			return fmt.Errorf("failed to create marketplace listing: %w", err)
		}

		msg := fmt.Sprintf("Your buy-back request for %s was approved and listed on the marketplace", buyback.Drug.Name)
		if err := notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifyBuyback); err != nil {
			return fmt.Errorf("failed to notify pharmacy: %w", err)
		}

		meta, _ := json.Marshal(map[string]any{
			"request_id": buyback.ID.String(),
			"listing_id": listing.ID.String(),
			"unit_price": buyback.BuybackUnitPrice,
		})
		audit := &model.AuditLog{
			ActorID:     parseActor(adminUserID),
			ActorRole:   model.RoleAdmin,
			EventType:   model.EventBuybackApproved,
			Description: fmt.Sprintf("buy-back request for %s approved", buyback.Drug.Name),
			Metadata:    string(meta),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notices.flush(s.hub)
	s.hub.BroadcastEvent(ws.EventBuybackUpdated, map[string]any{
		"request_id": buyback.ID.String(),
		"status":     buyback.Status,
	})

	res := mapBuyback(buyback)
	return &res, nil
}

func (s *buybackService) Decline(ctx context.Context, adminUserID, requestID string) (*BuybackResponse, error) {
	buyback, err := s.findOpenRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	pharmacy, err := s.pharmacyRepo.FindByID(ctx, buyback.PharmacyID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		buyback.Status = model.BuybackDeclined
		if err := s.buybackRepo.Save(txCtx, buyback); err != nil {
			return fmt.Errorf("failed to update buy-back request: %w", err)
		}

		msg := fmt.Sprintf("Your buy-back request for %s was declined", buyback.Drug.Name)
		if err := notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifyBuyback); err != nil {
			return fmt.Errorf("failed to notify pharmacy: %w", err)
		}

		audit := &model.AuditLog{
			ActorID:     parseActor(adminUserID),
			ActorRole:   model.RoleAdmin,
			EventType:   model.EventBuybackDeclined,
			Description: fmt.Sprintf("buy-back request for %s declined", buyback.Drug.Name),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notices.flush(s.hub)
	s.hub.BroadcastEvent(ws.EventBuybackUpdated, map[string]any{
		"request_id": buyback.ID.String(),
		"status":     buyback.Status,
	})

	res := mapBuyback(buyback)
	return &res, nil
}

// Advance moves an approved request one step along its lifecycle. Declined
// requests, backward moves and step skips are rejected; completed is
// terminal.
func (s *buybackService) Advance(ctx context.Context, adminUserID, requestID string, req AdvanceBuybackRequest) (*BuybackResponse, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, errors.New("invalid request id")
	}
	buyback, err := s.buybackRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("buy-back request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if buyback.Status == model.BuybackDeclined || buyback.Status == model.BuybackPending {
		return nil, ErrBuybackNotOpen
	}
	if buybackIndex(req.Status) != buybackIndex(buyback.Status)+1 {
		return nil, ErrBuybackBackward
	}

	pharmacy, err := s.pharmacyRepo.FindByID(ctx, buyback.PharmacyID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	from := buyback.Status
	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		buyback.Status = req.Status
		if err := s.buybackRepo.Save(txCtx, buyback); err != nil {
			return fmt.Errorf("failed to update buy-back request: %w", err)
		}

		msg := fmt.Sprintf("Your buy-back request for %s moved to %s", buyback.Drug.Name, req.Status)
		if err := notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifyBuyback); err != nil {
			return fmt.Errorf("failed to notify pharmacy: %w", err)
		}

		meta, _ := json.Marshal(map[string]any{
			"request_id": buyback.ID.String(),
			"from":       from,
			"to":         req.Status,
		})
		audit := &model.AuditLog{
			ActorID:     parseActor(adminUserID),
			ActorRole:   model.RoleAdmin,
			EventType:   model.EventBuybackAdvanced,
			Description: fmt.Sprintf("buy-back request for %s moved from %s to %s", buyback.Drug.Name, from, req.Status),
			Metadata:    string(meta),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notices.flush(s.hub)
	s.hub.BroadcastEvent(ws.EventBuybackUpdated, map[string]any{
		"request_id": buyback.ID.String(),
		"status":     buyback.Status,
	})

	res := mapBuyback(buyback)
	return &res, nil
}

// Suggest nudges the lot's pharmacy to submit near-expiry stock for buy-back.
func (s *buybackService) Suggest(ctx context.Context, adminUserID string, req SuggestBuybackRequest) error {
	lot, err := findLot(ctx, s.inventoryRepo, req.LotID)
	if err != nil {
		return err
	}
	pharmacy, err := s.pharmacyRepo.FindByID(ctx, lot.PharmacyID)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		msg := fmt.Sprintf("Admin suggests buy-back for %s (expiring soon)", lot.Drug.Name)
		return notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifyAdminSuggestion)
	})
	if err != nil {
		return err
	}

	notices.flush(s.hub)
	return nil
}

func (s *buybackService) findOpenRequest(ctx context.Context, requestID string) (*model.BuybackRequest, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, errors.New("invalid request id")
	}
	buyback, err := s.buybackRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("buy-back request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if buyback.Status != model.BuybackPending {
		return nil, ErrBuybackNotOpen
	}
	return buyback, nil
}
