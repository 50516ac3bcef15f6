package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"
	"github.com/ajedamilola/pharmalink/internal/shelflife"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/shopspring/decimal"
)

// RestockService raises automatic purchase orders for lots that have fallen
// to their reorder threshold. It backs both the post-sale check and the
// periodic background sweep.
type RestockService interface {
	RaiseIfDue(ctx context.Context, lotID string) (bool, error)
	SweepOnce(ctx context.Context) (int, error)
}

type restockService struct {
	inventoryRepo repository.InventoryRepository
	poRepo        repository.PurchaseOrderRepository
	pharmacyRepo  repository.PharmacyRepository
	notifRepo     repository.NotificationRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewRestockService(
	inventoryRepo repository.InventoryRepository,
	poRepo repository.PurchaseOrderRepository,
	pharmacyRepo repository.PharmacyRepository,
	notifRepo repository.NotificationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) RestockService {
	return &restockService{
		inventoryRepo: inventoryRepo,
		poRepo:        poRepo,
		pharmacyRepo:  pharmacyRepo,
		notifRepo:     notifRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// reorderQuantity falls back to twice the threshold for lots stored without
// an explicit reorder quantity.
func reorderQuantity(lot *model.InventoryLot) int {
	if lot.ReorderQuantity > 0 {
		return lot.ReorderQuantity
	}
	threshold := lot.ReorderThreshold
	if threshold <= 0 {
		threshold = model.DefaultReorderThreshold
	}
	return threshold * 2
}

func (s *restockService) RaiseIfDue(ctx context.Context, lotID string) (bool, error) {
	lot, err := findLot(ctx, s.inventoryRepo, lotID)
	if err != nil {
		return false, err
	}
	return s.raise(ctx, lot)
}

// SweepOnce scans every auto-restock lot at or below threshold and raises a
// purchase order for each, returning how many were created.
func (s *restockService) SweepOnce(ctx context.Context) (int, error) {
	lots, err := s.inventoryRepo.ListRestockCandidates(ctx)
	if err != nil {
		return 0, err
	}

	raised := 0
	for i := range lots {
		ok, err := s.raise(ctx, &lots[i])
		if err != nil {
			return raised, err
		}
		if ok {
			raised++
		}
	}
	return raised, nil
}

func (s *restockService) raise(ctx context.Context, lot *model.InventoryLot) (bool, error) {
	if !shelflife.RestockDue(lot.StockLevel, lot.ReorderThreshold, lot.AutoRestock, lot.IsManual) {
		return false, nil
	}

	// One open auto purchase order per pharmacy/drug pair at a time.
	open, err := s.poRepo.HasOpenAutoPO(ctx, lot.PharmacyID, lot.DrugID)
	if err != nil {
		return false, err
	}
	if open {
		return false, nil
	}

	quantity := reorderQuantity(lot)
	po := &model.PurchaseOrder{
		PharmacyID: lot.PharmacyID,
		VendorID:   lot.VendorID,
		DrugID:     lot.DrugID,
		Quantity:   quantity,
		UnitPrice:  lot.Drug.UnitPrice,
		TotalPrice: lot.Drug.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Trigger:    model.POTriggerAuto,
	}
	if lot.ApprovalMode == model.ApprovalModeAuto {
		po.ApprovalStatus = model.POStatusApproved
	} else {
		po.ApprovalStatus = model.POStatusPending
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.poRepo.Create(txCtx, po); err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}

		pharmacy, err := s.pharmacyRepo.FindByID(txCtx, lot.PharmacyID)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		msg := fmt.Sprintf("Auto-restock raised for %s: %d units (stock at %d)", lot.Drug.Name, quantity, lot.StockLevel)
		if err := notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifyRestock); err != nil {
			return fmt.Errorf("failed to notify pharmacy: %w", err)
		}

		meta, _ := json.Marshal(map[string]any{
			"lot_id":            lot.ID.String(),
			"purchase_order_id": po.ID.String(),
			"quantity":          quantity,
		})
		audit := &model.AuditLog{
			EventType:   model.EventAutoRestock,
			Description: fmt.Sprintf("auto-restock raised for %s at %s", lot.Drug.Name, pharmacy.Name),
			Metadata:    string(meta),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	notices.flush(s.hub)
	s.hub.BroadcastEvent(ws.EventRestockRaised, map[string]any{
		"lot_id":            lot.ID.String(),
		"purchase_order_id": po.ID.String(),
	})
	return true, nil
}
