package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"
	"github.com/ajedamilola/pharmalink/internal/shelflife"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrSaleExpiredLot = errors.New("expired lots cannot be sold")

// DTOs
type ProcessSaleRequest struct {
	LotID        string `json:"lot_id" binding:"required,uuid"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	CustomerName string `json:"customer_name"`
}

type SaleResponse struct {
	ID            uuid.UUID       `json:"id"`
	LotID         uuid.UUID       `json:"lot_id"`
	DrugID        uuid.UUID       `json:"drug_id"`
	DrugName      string          `json:"drug_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CustomerName  string          `json:"customer_name,omitempty"`
	StockLevel    int             `json:"stock_level"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

type POSService interface {
	ProcessSale(ctx context.Context, userID string, req ProcessSaleRequest) (*SaleResponse, error)
	ListSales(ctx context.Context, userID string, page, limit int) ([]SaleResponse, int64, error)
}

type posService struct {
	posRepo       repository.POSRepository
	inventoryRepo repository.InventoryRepository
	pharmacyRepo  repository.PharmacyRepository
	txRepo        repository.TransactionRepository
	txManager     repository.TransactionManager
	restock       RestockService
	hub           *ws.Hub
}

func NewPOSService(
	posRepo repository.POSRepository,
	inventoryRepo repository.InventoryRepository,
	pharmacyRepo repository.PharmacyRepository,
	txRepo repository.TransactionRepository,
	txManager repository.TransactionManager,
	restock RestockService,
	hub *ws.Hub,
) POSService {
	return &posService{
		posRepo:       posRepo,
		inventoryRepo: inventoryRepo,
		pharmacyRepo:  pharmacyRepo,
		txRepo:        txRepo,
		txManager:     txManager,
		restock:       restock,
		hub:           hub,
	}
}

// ProcessSale depletes the lot and credits the wallet in one transaction,
// then runs the auto-restock check on the sold lot.
func (s *posService) ProcessSale(ctx context.Context, userID string, req ProcessSaleRequest) (*SaleResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	lotID, err := uuid.Parse(req.LotID)
	if err != nil {
		return nil, errors.New("invalid lot id")
	}

	var (
		sale    model.POSSale
		lot     *model.InventoryLot
		balance decimal.Decimal
	)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := s.pharmacyRepo.FindByIDForUpdate(txCtx, pharmacy.ID)
		if err != nil {
			return fmt.Errorf("failed to lock wallet: %w", err)
		}

		lot, err = s.inventoryRepo.FindByIDForUpdate(txCtx, lotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("lot not found")
			}
			return fmt.Errorf("database error: %w", err)
		}
		if lot.PharmacyID != pharmacy.ID {
			return ErrNotOwner
		}
		if shelflife.DaysLeft(lot.ExpiryDate, time.Now()) <= 0 {
			return ErrSaleExpiredLot
		}
		if req.Quantity > lot.StockLevel {
			return ErrInvalidQuantity
		}

		total := lot.Drug.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		sale = model.POSSale{
			PharmacyID:   pharmacy.ID,
			LotID:        lot.ID,
			DrugID:       lot.DrugID,
			Quantity:     req.Quantity,
			UnitPrice:    lot.Drug.UnitPrice,
			TotalPrice:   total,
			CustomerName: req.CustomerName,
		}
		if err := s.posRepo.CreateSale(txCtx, &sale); err != nil {
			return fmt.Errorf("failed to record sale: %w", err)
		}

		lot.StockLevel -= req.Quantity
		if err := s.inventoryRepo.Save(txCtx, lot); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		balance = locked.WalletBalance.Add(total)
		if err := s.pharmacyRepo.UpdateWalletBalance(txCtx, pharmacy.ID, balance); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}

		ledger := &model.Transaction{
			PharmacyID:  pharmacy.ID,
			Type:        model.TxTypeCredit,
			Amount:      total,
			Reference:   fmt.Sprintf("POS-%d", time.Now().Unix()),
			Description: fmt.Sprintf("counter sale of %d x %s", req.Quantity, lot.Drug.Name),
		}
		if err := s.txRepo.Create(txCtx, ledger); err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastEvent(ws.EventStockChanged, map[string]any{
		"pharmacy_id": pharmacy.ID.String(),
		"lot_id":      lot.ID.String(),
		"stock_level": lot.StockLevel,
	})

	// Depleting a lot to its threshold may raise an auto purchase order.
	if _, err := s.restock.RaiseIfDue(ctx, lot.ID.String()); err != nil {
		// The sale has committed; a failed restock check must not undo it.
		log.Printf("restock check failed for lot %s: %v", lot.ID, err)
	}

	sale.Drug = lot.Drug
	res := mapSale(&sale)
	res.StockLevel = lot.StockLevel
	res.WalletBalance = balance
	return &res, nil
}

func (s *posService) ListSales(ctx context.Context, userID string, page, limit int) ([]SaleResponse, int64, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, 0, err
	}

	sales, total, err := s.posRepo.ListByPharmacy(ctx, pharmacy.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		res = append(res, mapSale(&sales[i]))
	}
	return res, total, nil
}

func mapSale(sale *model.POSSale) SaleResponse {
	return SaleResponse{
		ID:           sale.ID,
		LotID:        sale.LotID,
		DrugID:       sale.DrugID,
		DrugName:     sale.Drug.Name,
		Quantity:     sale.Quantity,
		UnitPrice:    sale.UnitPrice,
		TotalPrice:   sale.TotalPrice,
		CustomerName: sale.CustomerName,
		CreatedAt:    sale.CreatedAt,
	}
}
