package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"
	"github.com/ajedamilola/pharmalink/internal/shelflife"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrManualAutoRestock = errors.New("manually entered lots cannot be placed on auto-restock")

// DTOs
type CreateLotRequest struct {
	DrugID           string `json:"drug_id" binding:"required,uuid"`
	BatchNumber      string `json:"batch_number" binding:"required"`
	ExpiryDate       string `json:"expiry_date" binding:"required"` // YYYY-MM-DD
	StockLevel       int    `json:"stock_level" binding:"gte=0"`
	ReorderThreshold int    `json:"reorder_threshold" binding:"gte=0"`
	ReorderQuantity  int    `json:"reorder_quantity" binding:"gte=0"`
}

type SetAutoRestockRequest struct {
	Enabled bool `json:"enabled"`
}

// LotResponse decorates a stored lot with its derived shelf-life and stock
// classification at read time.
type LotResponse struct {
	ID                uuid.UUID             `json:"id"`
	DrugID            uuid.UUID             `json:"drug_id"`
	DrugName          string                `json:"drug_name"`
	Category          string                `json:"category"`
	BatchNumber       string                `json:"batch_number"`
	ExpiryDate        time.Time             `json:"expiry_date"`
	StockLevel        int                   `json:"stock_level"`
	ReorderThreshold  int                   `json:"reorder_threshold"`
	ReorderQuantity   int                   `json:"reorder_quantity"`
	StockStatus       shelflife.StockStatus `json:"stock_status"`
	DaysLeft          int                   `json:"days_left"`
	RemainingShelfPct int                   `json:"remaining_shelf_pct"`
	Urgency           shelflife.Urgency     `json:"urgency"`
	BuybackEligible   bool                  `json:"buyback_eligible"`
	IsManual          bool                  `json:"is_manual"`
	AutoRestock       bool                  `json:"auto_restock"`
}

// ExpiryTrackerResponse buckets a pharmacy's lots by expiry urgency. Expired
// lots are reported separately so they are never mistaken for sellable stock.
type ExpiryTrackerResponse struct {
	Critical []LotResponse `json:"critical"`
	Warning  []LotResponse `json:"warning"`
	Caution  []LotResponse `json:"caution"`
	Expired  []LotResponse `json:"expired"`
}

type InventoryService interface {
	ListLots(ctx context.Context, userID string, page, limit int) ([]LotResponse, int64, error)
	CreateManualLot(ctx context.Context, userID string, req CreateLotRequest) (*LotResponse, error)
	SetAutoRestock(ctx context.Context, userID, lotID string, req SetAutoRestockRequest) (*LotResponse, error)
	ExpiryTracker(ctx context.Context, userID string) (*ExpiryTrackerResponse, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	pharmacyRepo  repository.PharmacyRepository
	drugRepo      repository.DrugRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	pharmacyRepo repository.PharmacyRepository,
	drugRepo repository.DrugRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		pharmacyRepo:  pharmacyRepo,
		drugRepo:      drugRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

func buildLotView(lot *model.InventoryLot, now time.Time) LotResponse {
	daysLeft := shelflife.DaysLeft(lot.ExpiryDate, now)
	pct := shelflife.RemainingPercent(lot.Drug.ShelfLifeMonths, lot.ExpiryDate, now)
	return LotResponse{
		ID:                lot.ID,
		DrugID:            lot.DrugID,
		DrugName:          lot.Drug.Name,
		Category:          lot.Drug.Category,
		BatchNumber:       lot.BatchNumber,
		ExpiryDate:        lot.ExpiryDate,
		StockLevel:        lot.StockLevel,
		ReorderThreshold:  lot.ReorderThreshold,
		ReorderQuantity:   lot.ReorderQuantity,
		StockStatus:       shelflife.StockStatusFor(lot.StockLevel, lot.ReorderThreshold),
		DaysLeft:          daysLeft,
		RemainingShelfPct: pct,
		Urgency:           shelflife.UrgencyFor(daysLeft),
		BuybackEligible:   daysLeft > 0 && shelflife.BuybackEligible(pct),
		IsManual:          lot.IsManual,
		AutoRestock:       lot.AutoRestock,
	}
}

// groupByUrgency buckets views for the expiry tracker, dropping lots more than
// ninety days out.
func groupByUrgency(views []LotResponse) *ExpiryTrackerResponse {
	tracker := &ExpiryTrackerResponse{
		Critical: []LotResponse{},
		Warning:  []LotResponse{},
		Caution:  []LotResponse{},
		Expired:  []LotResponse{},
	}
	for _, v := range views {
		if v.DaysLeft <= 0 {
			tracker.Expired = append(tracker.Expired, v)
			continue
		}
		switch v.Urgency {
		case shelflife.UrgencyCritical:
			tracker.Critical = append(tracker.Critical, v)
		case shelflife.UrgencyWarning:
			tracker.Warning = append(tracker.Warning, v)
		case shelflife.UrgencyCaution:
			tracker.Caution = append(tracker.Caution, v)
		}
	}
	return tracker
}

func (s *inventoryService) ListLots(ctx context.Context, userID string, page, limit int) ([]LotResponse, int64, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, 0, err
	}

	lots, total, err := s.inventoryRepo.ListByPharmacy(ctx, pharmacy.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	views := make([]LotResponse, 0, len(lots))
	for i := range lots {
		views = append(views, buildLotView(&lots[i], now))
	}
	return views, total, nil
}

func (s *inventoryService) CreateManualLot(ctx context.Context, userID string, req CreateLotRequest) (*LotResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
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

	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, errors.New("expiry_date must be formatted as YYYY-MM-DD")
	}

	threshold := req.ReorderThreshold
	if threshold <= 0 {
		threshold = model.DefaultReorderThreshold
	}

	// Manual entries are permanently exempt from auto-restock.
	lot := &model.InventoryLot{
		PharmacyID:       pharmacy.ID,
		DrugID:           drug.ID,
		BatchNumber:      req.BatchNumber,
		ExpiryDate:       expiry,
		StockLevel:       req.StockLevel,
		ReorderThreshold: threshold,
		ReorderQuantity:  req.ReorderQuantity,
		IsManual:         true,
		AutoRestock:      false,
	}
	if err := s.inventoryRepo.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to create lot: %w", err)
	}
	lot.Drug = *drug

	s.hub.BroadcastEvent(ws.EventStockChanged, map[string]any{
		"pharmacy_id": pharmacy.ID.String(),
		"lot_id":      lot.ID.String(),
		"stock_level": lot.StockLevel,
	})

	view := buildLotView(lot, time.Now())
	return &view, nil
}

func (s *inventoryService) SetAutoRestock(ctx context.Context, userID, lotID string, req SetAutoRestockRequest) (*LotResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(lotID)
	if err != nil {
		return nil, errors.New("invalid lot id")
	}
	lot, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("lot not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if lot.PharmacyID != pharmacy.ID {
		return nil, ErrNotOwner
	}
	if lot.IsManual && req.Enabled {
		return nil, ErrManualAutoRestock
	}

	lot.AutoRestock = req.Enabled
	if err := s.inventoryRepo.Save(ctx, lot); err != nil {
		return nil, fmt.Errorf("failed to update lot: %w", err)
	}

	view := buildLotView(lot, time.Now())
	return &view, nil
}

func (s *inventoryService) ExpiryTracker(ctx context.Context, userID string) (*ExpiryTrackerResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	lots, err := s.inventoryRepo.ListByExpiry(ctx, pharmacy.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]LotResponse, 0, len(lots))
	for i := range lots {
		views = append(views, buildLotView(&lots[i], now))
	}
	return groupByUrgency(views), nil
}
