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

// defaultLogisticsFeeRate applies when no platform override is configured.
var defaultLogisticsFeeRate = decimal.NewFromFloat(0.05)

var (
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrListingUnavailable = errors.New("listing is not available in the requested quantity")
)

// DTOs
type CheckoutItemRequest struct {
	ListingID string `json:"listing_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CheckoutRequest struct {
	Items []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

type ListingResponse struct {
	ID                uuid.UUID       `json:"id"`
	DrugID            uuid.UUID       `json:"drug_id"`
	DrugName          string          `json:"drug_name"`
	Category          string          `json:"category"`
	Source            string          `json:"source"`
	SellerName        string          `json:"seller_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DiscountPct       int             `json:"discount_pct"`
	QuantityAvailable int             `json:"quantity_available"`
	LeadTimeDays      int             `json:"lead_time_days"`
	Status            string          `json:"status"`
}

type CheckoutResponse struct {
	Orders        []OrderResponse `json:"orders"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	LogisticsFee  decimal.Decimal `json:"logistics_fee"`
	Total         decimal.Decimal `json:"total"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
}

type DrugResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	NAFDACNumber    string          `json:"nafdac_number,omitempty"`
	ShelfLifeMonths int             `json:"shelf_life_months"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

type MarketplaceService interface {
	ListListings(ctx context.Context, page, limit int, search string) ([]ListingResponse, int64, error)
	ListDrugs(ctx context.Context, page, limit int, search string) ([]DrugResponse, int64, error)
	Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResponse, error)
}

type marketplaceService struct {
	listingRepo  repository.ListingRepository
	orderRepo    repository.OrderRepository
	drugRepo     repository.DrugRepository
	pharmacyRepo repository.PharmacyRepository
	vendorRepo   repository.VendorRepository
	txRepo       repository.TransactionRepository
	configRepo   repository.ConfigRepository
	notifRepo    repository.NotificationRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewMarketplaceService(
	listingRepo repository.ListingRepository,
	orderRepo repository.OrderRepository,
	drugRepo repository.DrugRepository,
	pharmacyRepo repository.PharmacyRepository,
	vendorRepo repository.VendorRepository,
	txRepo repository.TransactionRepository,
	configRepo repository.ConfigRepository,
	notifRepo repository.NotificationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) MarketplaceService {
	return &marketplaceService{
		listingRepo:  listingRepo,
		orderRepo:    orderRepo,
		drugRepo:     drugRepo,
		pharmacyRepo: pharmacyRepo,
		vendorRepo:   vendorRepo,
		txRepo:       txRepo,
		configRepo:   configRepo,
		notifRepo:    notifRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

func mapDrug(d *model.Drug) DrugResponse {
	return DrugResponse{
		ID:              d.ID,
		Name:            d.Name,
		Category:        d.Category,
		Description:     d.Description,
		NAFDACNumber:    d.NAFDACNumber,
		ShelfLifeMonths: d.ShelfLifeMonths,
		UnitPrice:       d.UnitPrice,
	}
}

func (s *marketplaceService) ListDrugs(ctx context.Context, page, limit int, search string) ([]DrugResponse, int64, error) {
	drugs, total, err := s.drugRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}
	res := make([]DrugResponse, 0, len(drugs))
	for i := range drugs {
		res = append(res, mapDrug(&drugs[i]))
	}
	return res, total, nil
}

func mapListing(l *model.MarketplaceListing) ListingResponse {
	seller := ""
	if l.Vendor != nil {
		seller = l.Vendor.Name
	} else if l.Pharmacy != nil {
		seller = l.Pharmacy.Name
	}
	return ListingResponse{
		ID:                l.ID,
		DrugID:            l.DrugID,
		DrugName:          l.Drug.Name,
		Category:          l.Drug.Category,
		Source:            l.Source,
		SellerName:        seller,
		UnitPrice:         l.UnitPrice,
		DiscountPct:       l.DiscountPct,
		QuantityAvailable: l.QuantityAvailable,
		LeadTimeDays:      l.LeadTimeDays,
		Status:            l.Status,
	}
}

func (s *marketplaceService) ListListings(ctx context.Context, page, limit int, search string) ([]ListingResponse, int64, error) {
	listings, total, err := s.listingRepo.ListActive(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}
	res := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		res = append(res, mapListing(&listings[i]))
	}
	return res, total, nil
}

// feeRate returns the configured logistics fee rate, falling back to the
// platform default when the key is missing or unreadable.
func (s *marketplaceService) feeRate(ctx context.Context) decimal.Decimal {
	cfg, err := s.configRepo.Get(ctx, model.ConfigKeyLogisticsFee)
	if err != nil {
		return defaultLogisticsFeeRate
	}
	var raw float64
	if err := json.Unmarshal([]byte(cfg.Value), &raw); err != nil || raw < 0 {
		return defaultLogisticsFeeRate
	}
	return decimal.NewFromFloat(raw)
}

// lineCharges computes the goods subtotal and logistics fee for one order line.
func lineCharges(unitPrice decimal.Decimal, quantity int, feeRate decimal.Decimal) (subtotal, fee decimal.Decimal) {
	subtotal = unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	fee = subtotal.Mul(feeRate).Round(2)
	return subtotal, fee
}

// Checkout debits the wallet and converts each cart line into an order in a
// single transaction. Listings are locked for the duration so concurrent
// checkouts cannot oversell.
func (s *marketplaceService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	rate := s.feeRate(ctx)

	var (
		orders   []model.Order
		subtotal = decimal.Zero
		totalFee = decimal.Zero
		balance  decimal.Decimal
		notices  pendingNotices
	)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := s.pharmacyRepo.FindByIDForUpdate(txCtx, pharmacy.ID)
		if err != nil {
			return fmt.Errorf("failed to lock wallet: %w", err)
		}
		if locked.AccountStatus == model.AccountSuspended {
			return ErrAccountSuspended
		}

		for _, item := range req.Items {
			listingID, err := uuid.Parse(item.ListingID)
			if err != nil {
				return errors.New("invalid listing id")
			}
			listing, err := s.listingRepo.FindByIDForUpdate(txCtx, listingID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errors.New("listing not found")
				}
				return fmt.Errorf("database error: %w", err)
			}
			if listing.Status != model.ListingActive || item.Quantity > listing.QuantityAvailable {
				return ErrListingUnavailable
			}

			lineSubtotal, lineFee := lineCharges(listing.UnitPrice, item.Quantity, rate)
			subtotal = subtotal.Add(lineSubtotal)
			totalFee = totalFee.Add(lineFee)

			order := model.Order{
				PharmacyID:          pharmacy.ID,
				VendorID:            listing.VendorID,
				DrugID:              listing.DrugID,
				Quantity:            item.Quantity,
				UnitPrice:           listing.UnitPrice,
				TotalPrice:          lineSubtotal,
				LogisticsFee:        lineFee,
				DestinationLocation: pharmacy.Location,
				Source:              listing.Source,
				Status:              model.OrderStatusPending,
			}
			if err := s.orderRepo.Create(txCtx, &order); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			order.Drug = listing.Drug
			orders = append(orders, order)

			listing.QuantityAvailable -= item.Quantity
			if listing.QuantityAvailable == 0 {
				listing.Status = model.ListingSold
			}
			if err := s.listingRepo.Save(txCtx, listing); err != nil {
				return fmt.Errorf("failed to update listing: %w", err)
			}

			if listing.VendorID != nil {
				vendor, err := s.vendorRepo.FindByID(txCtx, *listing.VendorID)
				if err == nil {
					msg := fmt.Sprintf("New order: %d x %s from %s", item.Quantity, listing.Drug.Name, pharmacy.Name)
					if err := notifyUser(txCtx, s.notifRepo, &notices, vendor.UserID, msg, model.NotifyOrder); err != nil {
						return fmt.Errorf("failed to notify vendor: %w", err)
					}
				}
			}
		}

		grandTotal := subtotal.Add(totalFee)
		if locked.WalletBalance.LessThan(grandTotal) {
			return ErrInsufficientFunds
		}

		balance = locked.WalletBalance.Sub(grandTotal)
		if err := s.pharmacyRepo.UpdateWalletBalance(txCtx, pharmacy.ID, balance); err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}

		ledger := &model.Transaction{
			PharmacyID:  pharmacy.ID,
			Type:        model.TxTypeDebit,
			Amount:      grandTotal,
			Reference:   fmt.Sprintf("ORD-%d", time.Now().Unix()),
			Description: fmt.Sprintf("marketplace checkout, %d order(s)", len(orders)),
		}
		if err := s.txRepo.Create(txCtx, ledger); err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}

		orderIDs := make([]string, 0, len(orders))
		for _, o := range orders {
			orderIDs = append(orderIDs, o.ID.String())
		}
		meta, _ := json.Marshal(map[string]any{"order_ids": orderIDs, "total": grandTotal})
		audit := &model.AuditLog{
			ActorID:     parseActor(userID),
			ActorRole:   model.RolePharmacy,
			EventType:   model.EventOrderPlaced,
			Description: fmt.Sprintf("%s placed %d order(s)", pharmacy.Name, len(orders)),
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
	for _, o := range orders {
		s.hub.BroadcastEvent(ws.EventOrderUpdated, map[string]any{
			"order_id": o.ID.String(),
			"status":   o.Status,
		})
	}

	res := &CheckoutResponse{
		Orders:        mapOrders(orders),
		Subtotal:      subtotal,
		LogisticsFee:  totalFee,
		Total:         subtotal.Add(totalFee),
		WalletBalance: balance,
	}
	return res, nil
}
