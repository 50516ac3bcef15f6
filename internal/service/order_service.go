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
	ErrBackwardStatus = errors.New("order status can only advance forward")
	ErrNotDeliverable = errors.New("order must be out for delivery before it can be confirmed")
	ErrPONotPending   = errors.New("purchase order is not pending approval")
	ErrPONotApproved  = errors.New("purchase order must be approved before fulfilment")
)

// DTOs
type AdvanceOrderRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed processing shipped in_transit out_for_delivery"`
}

type CreateDisputeRequest struct {
	OrderID     string `json:"order_id" binding:"required,uuid"`
	IssueType   string `json:"issue_type" binding:"required"`
	Description string `json:"description"`
}

type OrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	PharmacyID   uuid.UUID       `json:"pharmacy_id"`
	VendorID     *uuid.UUID      `json:"vendor_id,omitempty"`
	DrugID       uuid.UUID       `json:"drug_id"`
	DrugName     string          `json:"drug_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	LogisticsFee decimal.Decimal `json:"logistics_fee"`
	Source       string          `json:"source"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

type PurchaseOrderResponse struct {
	ID             uuid.UUID       `json:"id"`
	PharmacyID     uuid.UUID       `json:"pharmacy_id"`
	VendorID       *uuid.UUID      `json:"vendor_id,omitempty"`
	DrugID         uuid.UUID       `json:"drug_id"`
	DrugName       string          `json:"drug_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Trigger        string          `json:"trigger"`
	ApprovalStatus string          `json:"approval_status"`
	CreatedAt      time.Time       `json:"created_at"`
}

type DisputeResponse struct {
	ID          uuid.UUID  `json:"id"`
	PharmacyID  uuid.UUID  `json:"pharmacy_id"`
	VendorID    uuid.UUID  `json:"vendor_id"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	IssueType   string     `json:"issue_type"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

type OrderService interface {
	ListPharmacyOrders(ctx context.Context, userID, status string, page, limit int) ([]OrderResponse, int64, error)
	ListVendorOrders(ctx context.Context, userID, status string, page, limit int) ([]OrderResponse, int64, error)
	AdvanceStatus(ctx context.Context, userID, orderID string, req AdvanceOrderRequest) (*OrderResponse, error)
	ConfirmDelivery(ctx context.Context, userID, orderID string) (*OrderResponse, error)
	ListPharmacyPurchaseOrders(ctx context.Context, userID string, page, limit int) ([]PurchaseOrderResponse, int64, error)
	ListVendorPurchaseOrders(ctx context.Context, userID, status string, page, limit int) ([]PurchaseOrderResponse, int64, error)
	ApprovePurchaseOrder(ctx context.Context, userID, poID string) (*PurchaseOrderResponse, error)
	FulfillPurchaseOrder(ctx context.Context, userID, poID string) (*PurchaseOrderResponse, error)
	CreateDispute(ctx context.Context, userID string, req CreateDisputeRequest) (*DisputeResponse, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	poRepo        repository.PurchaseOrderRepository
	inventoryRepo repository.InventoryRepository
	pharmacyRepo  repository.PharmacyRepository
	vendorRepo    repository.VendorRepository
	disputeRepo   repository.DisputeRepository
	userRepo      repository.UserRepository
	notifRepo     repository.NotificationRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	poRepo repository.PurchaseOrderRepository,
	inventoryRepo repository.InventoryRepository,
	pharmacyRepo repository.PharmacyRepository,
	vendorRepo repository.VendorRepository,
	disputeRepo repository.DisputeRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		poRepo:        poRepo,
		inventoryRepo: inventoryRepo,
		pharmacyRepo:  pharmacyRepo,
		vendorRepo:    vendorRepo,
		disputeRepo:   disputeRepo,
		userRepo:      userRepo,
		notifRepo:     notifRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

func mapOrder(o *model.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		PharmacyID:   o.PharmacyID,
		VendorID:     o.VendorID,
		DrugID:       o.DrugID,
		DrugName:     o.Drug.Name,
		Quantity:     o.Quantity,
		UnitPrice:    o.UnitPrice,
		TotalPrice:   o.TotalPrice,
		LogisticsFee: o.LogisticsFee,
		Source:       o.Source,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
	}
}

func mapOrders(orders []model.Order) []OrderResponse {
	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, mapOrder(&orders[i]))
	}
	return res
}

func mapPO(po *model.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:             po.ID,
		PharmacyID:     po.PharmacyID,
		VendorID:       po.VendorID,
		DrugID:         po.DrugID,
		DrugName:       po.Drug.Name,
		Quantity:       po.Quantity,
		UnitPrice:      po.UnitPrice,
		TotalPrice:     po.TotalPrice,
		Trigger:        po.Trigger,
		ApprovalStatus: po.ApprovalStatus,
		CreatedAt:      po.CreatedAt,
	}
}

func mapPOs(pos []model.PurchaseOrder) []PurchaseOrderResponse {
	res := make([]PurchaseOrderResponse, 0, len(pos))
	for i := range pos {
		res = append(res, mapPO(&pos[i]))
	}
	return res
}

// statusIndex returns the position of a status in the delivery chain, or -1.
func statusIndex(status string) int {
	for i, s := range model.OrderStatusChain {
		if s == status {
			return i
		}
	}
	return -1
}

func (s *orderService) ListPharmacyOrders(ctx context.Context, userID, status string, page, limit int) ([]OrderResponse, int64, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, 0, err
	}
	orders, total, err := s.orderRepo.ListByPharmacy(ctx, pharmacy.ID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapOrders(orders), total, nil
}

func (s *orderService) ListVendorOrders(ctx context.Context, userID, status string, page, limit int) ([]OrderResponse, int64, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, 0, err
	}
	orders, total, err := s.orderRepo.ListByVendor(ctx, vendor.ID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapOrders(orders), total, nil
}

// AdvanceStatus moves a vendor's order along the delivery chain. The final
// delivered step belongs to the pharmacy via ConfirmDelivery.
func (s *orderService) AdvanceStatus(ctx context.Context, userID, orderID string, req AdvanceOrderRequest) (*OrderResponse, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.VendorID == nil || *order.VendorID != vendor.ID {
		return nil, ErrNotOwner
	}
	if statusIndex(req.Status) <= statusIndex(order.Status) {
		return nil, ErrBackwardStatus
	}

	order.Status = req.Status
	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		pharmacy, err := s.pharmacyRepo.FindByID(txCtx, order.PharmacyID)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		msg := fmt.Sprintf("Order for %s is now %s", order.Drug.Name, order.Status)
		if err := notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifyOrder); err != nil {
			return fmt.Errorf("failed to notify pharmacy: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notices.flush(s.hub)
	s.hub.BroadcastEvent(ws.EventOrderUpdated, map[string]any{
		"order_id": order.ID.String(),
		"status":   order.Status,
	})

	res := mapOrder(order)
	return &res, nil
}

// ConfirmDelivery marks the order delivered and folds the stock into the
// pharmacy's inventory. Re-confirming the same order tops up the same
// platform-created lot instead of creating duplicates.
func (s *orderService) ConfirmDelivery(ctx context.Context, userID, orderID string) (*OrderResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PharmacyID != pharmacy.ID {
		return nil, ErrNotOwner
	}
	if order.Status != model.OrderStatusOutForDelivery {
		return nil, ErrNotDeliverable
	}

	batch := fmt.Sprintf("PL-%s", order.ID.String()[:8])
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order.Status = model.OrderStatusDelivered
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		lot, err := s.inventoryRepo.FindPlatformLot(txCtx, pharmacy.ID, order.DrugID, batch)
		switch {
		case err == nil:
			lot.StockLevel += order.Quantity
			if err := s.inventoryRepo.Save(txCtx, lot); err != nil {
				return fmt.Errorf("failed to restock lot: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			lot = &model.InventoryLot{
				PharmacyID:       pharmacy.ID,
				DrugID:           order.DrugID,
				VendorID:         order.VendorID,
				BatchNumber:      batch,
				ExpiryDate:       time.Now().AddDate(0, shelflife.DefaultShelfLifeMonths, 0),
				StockLevel:       order.Quantity,
				ReorderThreshold: model.DefaultReorderThreshold,
			}
			if err := s.inventoryRepo.Create(txCtx, lot); err != nil {
				return fmt.Errorf("failed to create lot: %w", err)
			}
		default:
			return fmt.Errorf("database error: %w", err)
		}

		meta, _ := json.Marshal(map[string]any{"order_id": order.ID.String(), "lot_id": lot.ID.String()})
		audit := &model.AuditLog{
			ActorID:     parseActor(userID),
			ActorRole:   model.RolePharmacy,
			EventType:   model.EventOrderDelivered,
			Description: fmt.Sprintf("delivery of %d x %s confirmed", order.Quantity, order.Drug.Name),
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

	s.hub.BroadcastEvent(ws.EventOrderUpdated, map[string]any{
		"order_id": order.ID.String(),
		"status":   order.Status,
	})
	s.hub.BroadcastEvent(ws.EventStockChanged, map[string]any{
		"pharmacy_id": pharmacy.ID.String(),
		"drug_id":     order.DrugID.String(),
	})

	res := mapOrder(order)
	return &res, nil
}

func (s *orderService) ListPharmacyPurchaseOrders(ctx context.Context, userID string, page, limit int) ([]PurchaseOrderResponse, int64, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, 0, err
	}
	pos, total, err := s.poRepo.ListByPharmacy(ctx, pharmacy.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapPOs(pos), total, nil
}

func (s *orderService) ListVendorPurchaseOrders(ctx context.Context, userID, status string, page, limit int) ([]PurchaseOrderResponse, int64, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, 0, err
	}
	pos, total, err := s.poRepo.ListByVendor(ctx, vendor.ID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapPOs(pos), total, nil
}

func (s *orderService) ApprovePurchaseOrder(ctx context.Context, userID, poID string) (*PurchaseOrderResponse, error) {
	_, po, err := s.findVendorPO(ctx, userID, poID)
	if err != nil {
		return nil, err
	}
	if po.ApprovalStatus != model.POStatusPending {
		return nil, ErrPONotPending
	}

	po.ApprovalStatus = model.POStatusApproved
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, fmt.Errorf("failed to update purchase order: %w", err)
	}

	res := mapPO(po)
	return &res, nil
}

// FulfillPurchaseOrder converts an approved restock request into a standard
// pending order that then walks the normal delivery chain.
func (s *orderService) FulfillPurchaseOrder(ctx context.Context, userID, poID string) (*PurchaseOrderResponse, error) {
	vendor, po, err := s.findVendorPO(ctx, userID, poID)
	if err != nil {
		return nil, err
	}
	if po.ApprovalStatus != model.POStatusApproved {
		return nil, ErrPONotApproved
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		po.ApprovalStatus = model.POStatusFulfilled
		if err := s.poRepo.Save(txCtx, po); err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}

		order := &model.Order{
			PharmacyID: po.PharmacyID,
			VendorID:   &vendor.ID,
			DrugID:     po.DrugID,
			Quantity:   po.Quantity,
			UnitPrice:  po.UnitPrice,
			TotalPrice: po.TotalPrice,
			Source:     model.OrderSourceVendor,
			Status:     model.OrderStatusPending,
		}
		if err := s.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		pharmacy, err := s.pharmacyRepo.FindByID(txCtx, po.PharmacyID)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		msg := fmt.Sprintf("Restock of %d x %s is being fulfilled by %s", po.Quantity, po.Drug.Name, vendor.Name)
		if err := notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifyRestock); err != nil {
			return fmt.Errorf("failed to notify pharmacy: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notices.flush(s.hub)
	res := mapPO(po)
	return &res, nil
}

func (s *orderService) CreateDispute(ctx context.Context, userID string, req CreateDisputeRequest) (*DisputeResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PharmacyID != pharmacy.ID {
		return nil, ErrNotOwner
	}
	if order.VendorID == nil {
		return nil, errors.New("disputes can only be raised against vendor orders")
	}

	dispute := &model.Dispute{
		PharmacyID:  pharmacy.ID,
		VendorID:    *order.VendorID,
		OrderID:     &order.ID,
		IssueType:   req.IssueType,
		Description: req.Description,
		Status:      model.DisputeOpen,
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.disputeRepo.Create(txCtx, dispute); err != nil {
			return fmt.Errorf("failed to create dispute: %w", err)
		}
		msg := fmt.Sprintf("%s opened a dispute (%s) on an order for %s", pharmacy.Name, req.IssueType, order.Drug.Name)
		return notifyAdmins(txCtx, s.userRepo, s.notifRepo, &notices, msg, model.NotifySystem)
	})
	if err != nil {
		return nil, err
	}

	notices.flush(s.hub)
	return &DisputeResponse{
		ID:          dispute.ID,
		PharmacyID:  dispute.PharmacyID,
		VendorID:    dispute.VendorID,
		OrderID:     dispute.OrderID,
		IssueType:   dispute.IssueType,
		Description: dispute.Description,
		Status:      dispute.Status,
		CreatedAt:   dispute.CreatedAt,
	}, nil
}

func (s *orderService) findOrder(ctx context.Context, orderID string) (*model.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, errors.New("invalid order id")
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return order, nil
}

func (s *orderService) findVendorPO(ctx context.Context, userID, poID string) (*model.Vendor, *model.PurchaseOrder, error) {
	vendor, err := resolveVendor(ctx, s.vendorRepo, userID)
	if err != nil {
		return nil, nil, err
	}
	id, err := uuid.Parse(poID)
	if err != nil {
		return nil, nil, errors.New("invalid purchase order id")
	}
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("purchase order not found")
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}
	if po.VendorID == nil || *po.VendorID != vendor.ID {
		return nil, nil, ErrNotOwner
	}
	return vendor, po, nil
}
