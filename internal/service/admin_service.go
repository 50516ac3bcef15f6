package service

import (
	"context"
	"encoding/json"
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

var ErrDisputeClosed = errors.New("dispute is already closed")

// DTOs
type VendorDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=verified rejected"`
}

type ResolveDisputeRequest struct {
	Status string `json:"status" binding:"required,oneof=resolved escalated"`
}

type CreateDrugRequest struct {
	Name            string          `json:"name" binding:"required"`
	Category        string          `json:"category" binding:"required"`
	Description     string          `json:"description"`
	NAFDACNumber    string          `json:"nafdac_number"`
	ShelfLifeMonths int             `json:"shelf_life_months" binding:"omitempty,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price" binding:"required"`
}

type SetConfigRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

type ConfigResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type AuditLogResponse struct {
	ID          uuid.UUID  `json:"id"`
	ActorID     *uuid.UUID `json:"actor_id,omitempty"`
	ActorRole   string     `json:"actor_role,omitempty"`
	EventType   string     `json:"event_type"`
	Description string     `json:"description"`
	Metadata    string     `json:"metadata,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// OverviewResponse is the admin dashboard headline block.
type OverviewResponse struct {
	TotalPharmacies    int64           `json:"total_pharmacies"`
	TotalVendors       int64           `json:"total_vendors"`
	PendingVendors     int64           `json:"pending_vendors"`
	TotalOrders        int64           `json:"total_orders"`
	TotalOrderValue    decimal.Decimal `json:"total_order_value"`
	TotalLogisticsFees decimal.Decimal `json:"total_logistics_fees"`
	PendingBuybacks    int64           `json:"pending_buybacks"`
	OpenDisputes       int64           `json:"open_disputes"`
	TotalWalletFloat   decimal.Decimal `json:"total_wallet_float"`
}

type AdminService interface {
	ListPharmacies(ctx context.Context, page, limit int, search string) ([]PharmacyResponse, int64, error)
	TogglePharmacyStatus(ctx context.Context, adminUserID, pharmacyID string) (*PharmacyResponse, error)
	ListVendors(ctx context.Context, status string, page, limit int) ([]VendorResponse, int64, error)
	DecideVendorVerification(ctx context.Context, adminUserID, vendorID string, req VendorDecisionRequest) (*VendorResponse, error)
	ListDisputes(ctx context.Context, status string, page, limit int) ([]DisputeResponse, int64, error)
	ResolveDispute(ctx context.Context, adminUserID, disputeID string, req ResolveDisputeRequest) (*DisputeResponse, error)
	ListOrders(ctx context.Context, status string, page, limit int) ([]OrderResponse, int64, error)
	CreateDrug(ctx context.Context, req CreateDrugRequest) (*DrugResponse, error)
	GetConfig(ctx context.Context, key string) (*ConfigResponse, error)
	SetConfig(ctx context.Context, adminUserID, key string, req SetConfigRequest) (*ConfigResponse, error)
	SeedDefaults(ctx context.Context) error
	ListAuditLogs(ctx context.Context, eventType string, page, limit int) ([]AuditLogResponse, int64, error)
	Overview(ctx context.Context) (*OverviewResponse, error)
}

type adminService struct {
	db           *gorm.DB
	pharmacyRepo repository.PharmacyRepository
	vendorRepo   repository.VendorRepository
	drugRepo     repository.DrugRepository
	orderRepo    repository.OrderRepository
	disputeRepo  repository.DisputeRepository
	configRepo   repository.ConfigRepository
	auditRepo    repository.AuditRepository
	notifRepo    repository.NotificationRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewAdminService(
	db *gorm.DB,
	pharmacyRepo repository.PharmacyRepository,
	vendorRepo repository.VendorRepository,
	drugRepo repository.DrugRepository,
	orderRepo repository.OrderRepository,
	disputeRepo repository.DisputeRepository,
	configRepo repository.ConfigRepository,
	auditRepo repository.AuditRepository,
	notifRepo repository.NotificationRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) AdminService {
	return &adminService{
		db:           db,
		pharmacyRepo: pharmacyRepo,
		vendorRepo:   vendorRepo,
		drugRepo:     drugRepo,
		orderRepo:    orderRepo,
		disputeRepo:  disputeRepo,
		configRepo:   configRepo,
		auditRepo:    auditRepo,
		notifRepo:    notifRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func (s *adminService) ListPharmacies(ctx context.Context, page, limit int, search string) ([]PharmacyResponse, int64, error) {
	pharmacies, total, err := s.pharmacyRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}
	res := make([]PharmacyResponse, 0, len(pharmacies))
	for i := range pharmacies {
		res = append(res, mapPharmacy(&pharmacies[i]))
	}
	return res, total, nil
}

func (s *adminService) TogglePharmacyStatus(ctx context.Context, adminUserID, pharmacyID string) (*PharmacyResponse, error) {
	id, err := uuid.Parse(pharmacyID)
	if err != nil {
		return nil, errors.New("invalid pharmacy id")
	}
	pharmacy, err := s.pharmacyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("pharmacy not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	next := model.AccountSuspended
	if pharmacy.AccountStatus == model.AccountSuspended {
		next = model.AccountActive
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.pharmacyRepo.UpdateAccountStatus(txCtx, pharmacy.ID, next); err != nil {
			return fmt.Errorf("failed to update account status: %w", err)
		}

		msg := fmt.Sprintf("Your account has been %s by a platform administrator", next)
		if err := notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifySystem); err != nil {
			return fmt.Errorf("failed to notify pharmacy: %w", err)
		}

		audit := &model.AuditLog{
			ActorID:     parseActor(adminUserID),
			ActorRole:   model.RoleAdmin,
			EventType:   model.EventPharmacyStatus,
			Description: fmt.Sprintf("pharmacy %s set to %s", pharmacy.Name, next),
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
	pharmacy.AccountStatus = next
	res := mapPharmacy(pharmacy)
	return &res, nil
}

func (s *adminService) ListVendors(ctx context.Context, status string, page, limit int) ([]VendorResponse, int64, error) {
	vendors, total, err := s.vendorRepo.List(ctx, page, limit, status)
	if err != nil {
		return nil, 0, err
	}
	res := make([]VendorResponse, 0, len(vendors))
	for i := range vendors {
		res = append(res, mapVendor(&vendors[i]))
	}
	return res, total, nil
}

// DecideVendorVerification settles the vendor's overall status along with all
// three compliance documents at once.
func (s *adminService) DecideVendorVerification(ctx context.Context, adminUserID, vendorID string, req VendorDecisionRequest) (*VendorResponse, error) {
	id, err := uuid.Parse(vendorID)
	if err != nil {
		return nil, errors.New("invalid vendor id")
	}
	vendor, err := s.vendorRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("vendor not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	vendor.VerificationStatus = req.Decision
	vendor.CACStatus = req.Decision
	vendor.NAFDACStatus = req.Decision
	vendor.LicenseStatus = req.Decision

	eventType := model.EventVendorVerified
	if req.Decision == model.VerificationRejected {
		eventType = model.EventVendorRejected
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.Update(txCtx, vendor); err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}

		msg := fmt.Sprintf("Your vendor verification was %s", req.Decision)
		if err := notifyUser(txCtx, s.notifRepo, &notices, vendor.UserID, msg, model.NotifySystem); err != nil {
			return fmt.Errorf("failed to notify vendor: %w", err)
		}

		audit := &model.AuditLog{
			ActorID:     parseActor(adminUserID),
			ActorRole:   model.RoleAdmin,
			EventType:   eventType,
			Description: fmt.Sprintf("vendor %s %s", vendor.Name, req.Decision),
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
	res := mapVendor(vendor)
	return &res, nil
}

func (s *adminService) ListDisputes(ctx context.Context, status string, page, limit int) ([]DisputeResponse, int64, error) {
	disputes, total, err := s.disputeRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]DisputeResponse, 0, len(disputes))
	for _, d := range disputes {
		res = append(res, DisputeResponse{
			ID:          d.ID,
			PharmacyID:  d.PharmacyID,
			VendorID:    d.VendorID,
			OrderID:     d.OrderID,
			IssueType:   d.IssueType,
			Description: d.Description,
			Status:      d.Status,
			CreatedAt:   d.CreatedAt,
		})
	}
	return res, total, nil
}

func (s *adminService) ResolveDispute(ctx context.Context, adminUserID, disputeID string, req ResolveDisputeRequest) (*DisputeResponse, error) {
	id, err := uuid.Parse(disputeID)
	if err != nil {
		return nil, errors.New("invalid dispute id")
	}
	dispute, err := s.disputeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("dispute not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if dispute.Status != model.DisputeOpen {
		return nil, ErrDisputeClosed
	}

	dispute.Status = req.Status
	eventType := model.EventDisputeResolved
	if req.Status == model.DisputeEscalated {
		eventType = model.EventDisputeEscalated
	}

	var notices pendingNotices
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.disputeRepo.Save(txCtx, dispute); err != nil {
			return fmt.Errorf("failed to update dispute: %w", err)
		}

		pharmacy, err := s.pharmacyRepo.FindByID(txCtx, dispute.PharmacyID)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		msg := fmt.Sprintf("Your dispute (%s) was %s", dispute.IssueType, req.Status)
		if err := notifyUser(txCtx, s.notifRepo, &notices, pharmacy.UserID, msg, model.NotifySystem); err != nil {
			return fmt.Errorf("failed to notify pharmacy: %w", err)
		}

		audit := &model.AuditLog{
			ActorID:     parseActor(adminUserID),
			ActorRole:   model.RoleAdmin,
			EventType:   eventType,
			Description: fmt.Sprintf("dispute %s %s", dispute.ID, req.Status),
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

func (s *adminService) ListOrders(ctx context.Context, status string, page, limit int) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapOrders(orders), total, nil
}

func (s *adminService) CreateDrug(ctx context.Context, req CreateDrugRequest) (*DrugResponse, error) {
	drug := &model.Drug{
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		NAFDACNumber:    req.NAFDACNumber,
		ShelfLifeMonths: req.ShelfLifeMonths,
		UnitPrice:       req.UnitPrice.Round(2),
	}
	if drug.ShelfLifeMonths <= 0 {
		drug.ShelfLifeMonths = 24
	}
	if err := s.drugRepo.Create(ctx, drug); err != nil {
		return nil, fmt.Errorf("failed to create drug: %w", err)
	}
	res := mapDrug(drug)
	return &res, nil
}

func (s *adminService) GetConfig(ctx context.Context, key string) (*ConfigResponse, error) {
	cfg, err := s.configRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("config key not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &ConfigResponse{Key: cfg.Key, Value: json.RawMessage(cfg.Value), UpdatedAt: cfg.UpdatedAt}, nil
}

func (s *adminService) SetConfig(ctx context.Context, adminUserID, key string, req SetConfigRequest) (*ConfigResponse, error) {
	if !json.Valid(req.Value) {
		return nil, errors.New("value must be valid JSON")
	}

	cfg := &model.PlatformConfig{Key: key, Value: string(req.Value)}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.configRepo.Upsert(txCtx, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		audit := &model.AuditLog{
			ActorID:     parseActor(adminUserID),
			ActorRole:   model.RoleAdmin,
			EventType:   model.EventConfigUpdated,
			Description: fmt.Sprintf("platform config %q updated", key),
			Metadata:    string(req.Value),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ConfigResponse{Key: key, Value: req.Value, UpdatedAt: time.Now()}, nil
}

// SeedDefaults installs the canonical settings on first boot without
// overwriting admin edits.
func (s *adminService) SeedDefaults(ctx context.Context) error {
	defaults := map[string]string{
		model.ConfigKeyLogisticsFee: `0.05`,
		model.ConfigKeyBuybackTiers: `[
			{"max_pct": 10, "discount_pct": 70},
			{"max_pct": 20, "discount_pct": 65},
			{"max_pct": 30, "discount_pct": 60}
		]`,
	}
	for key, value := range defaults {
		if _, err := s.configRepo.Get(ctx, key); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.configRepo.Upsert(ctx, &model.PlatformConfig{Key: key, Value: value}); err != nil {
			return err
		}
	}
	return nil
}

func (s *adminService) ListAuditLogs(ctx context.Context, eventType string, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, eventType, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, AuditLogResponse{
			ID:          l.ID,
			ActorID:     l.ActorID,
			ActorRole:   l.ActorRole,
			EventType:   l.EventType,
			Description: l.Description,
			Metadata:    l.Metadata,
			CreatedAt:   l.CreatedAt,
		})
	}
	return res, total, nil
}

// Overview aggregates the admin dashboard headline numbers with raw queries.
func (s *adminService) Overview(ctx context.Context) (*OverviewResponse, error) {
	res := &OverviewResponse{}

	s.db.WithContext(ctx).Model(&model.Pharmacy{}).Count(&res.TotalPharmacies)
	s.db.WithContext(ctx).Model(&model.Vendor{}).Count(&res.TotalVendors)
	s.db.WithContext(ctx).Model(&model.Vendor{}).
		Where("verification_status = ?", model.VerificationPending).
		Count(&res.PendingVendors)
	s.db.WithContext(ctx).Model(&model.Order{}).Count(&res.TotalOrders)
	s.db.WithContext(ctx).Model(&model.BuybackRequest{}).
		Where("status = ?", model.BuybackPending).
		Count(&res.PendingBuybacks)
	s.db.WithContext(ctx).Model(&model.Dispute{}).
		Where("status = ?", model.DisputeOpen).
		Count(&res.OpenDisputes)

	var orderTotals struct {
		Value decimal.Decimal
		Fees  decimal.Decimal
	}
	s.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_price), 0) as value, COALESCE(SUM(logistics_fee), 0) as fees").
		Scan(&orderTotals)
	res.TotalOrderValue = orderTotals.Value
	res.TotalLogisticsFees = orderTotals.Fees

	var walletFloat struct {
		Value decimal.Decimal
	}
	s.db.WithContext(ctx).Model(&model.Pharmacy{}).
		Select("COALESCE(SUM(wallet_balance), 0) as value").
		Scan(&walletFloat)
	res.TotalWalletFloat = walletFloat.Value

	return res, nil
}
