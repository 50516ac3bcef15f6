package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/shelflife"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func lotExpiring(daysOut, stock, threshold int) *model.InventoryLot {
	return &model.InventoryLot{
		Drug:             model.Drug{Name: "Amoxicillin 500mg", Category: "antibiotic", ShelfLifeMonths: 24},
		BatchNumber:      "BN-001",
		ExpiryDate:       testNow.Add(time.Duration(daysOut) * 24 * time.Hour),
		StockLevel:       stock,
		ReorderThreshold: threshold,
	}
}

func TestBuildLotView(t *testing.T) {
	t.Run("near-expiry lot is critical and buyback eligible", func(t *testing.T) {
		view := buildLotView(lotExpiring(20, 50, 10), testNow)
		assert.Equal(t, 20, view.DaysLeft)
		assert.Equal(t, 3, view.RemainingShelfPct)
		assert.Equal(t, shelflife.UrgencyCritical, view.Urgency)
		assert.True(t, view.BuybackEligible)
		assert.Equal(t, shelflife.InStock, view.StockStatus)
	})

	t.Run("fresh lot is neither urgent nor eligible", func(t *testing.T) {
		view := buildLotView(lotExpiring(600, 50, 10), testNow)
		assert.Equal(t, shelflife.UrgencyNone, view.Urgency)
		assert.False(t, view.BuybackEligible)
	})

	t.Run("expired lot is never buyback eligible", func(t *testing.T) {
		view := buildLotView(lotExpiring(-5, 50, 10), testNow)
		assert.LessOrEqual(t, view.DaysLeft, 0)
		assert.False(t, view.BuybackEligible)
	})

	t.Run("stock at threshold reads low", func(t *testing.T) {
		view := buildLotView(lotExpiring(100, 10, 10), testNow)
		assert.Equal(t, shelflife.LowStock, view.StockStatus)
	})

	t.Run("zero stock reads out of stock", func(t *testing.T) {
		view := buildLotView(lotExpiring(100, 0, 10), testNow)
		assert.Equal(t, shelflife.OutOfStock, view.StockStatus)
	})
}

func TestGroupByUrgency(t *testing.T) {
	views := []LotResponse{
		buildLotView(lotExpiring(-1, 5, 10), testNow),
		buildLotView(lotExpiring(15, 5, 10), testNow),
		buildLotView(lotExpiring(45, 5, 10), testNow),
		buildLotView(lotExpiring(75, 5, 10), testNow),
		buildLotView(lotExpiring(200, 5, 10), testNow),
	}

	tracker := groupByUrgency(views)
	require.NotNil(t, tracker)

	assert.Len(t, tracker.Expired, 1)
	assert.Len(t, tracker.Critical, 1)
	assert.Len(t, tracker.Warning, 1)
	assert.Len(t, tracker.Caution, 1)
	assert.Equal(t, 15, tracker.Critical[0].DaysLeft)
	assert.Equal(t, 45, tracker.Warning[0].DaysLeft)
	assert.Equal(t, 75, tracker.Caution[0].DaysLeft)
}

func TestGroupByUrgencyBoundaries(t *testing.T) {
	tracker := groupByUrgency([]LotResponse{
		buildLotView(lotExpiring(30, 5, 10), testNow),
		buildLotView(lotExpiring(31, 5, 10), testNow),
		buildLotView(lotExpiring(60, 5, 10), testNow),
		buildLotView(lotExpiring(61, 5, 10), testNow),
		buildLotView(lotExpiring(90, 5, 10), testNow),
		buildLotView(lotExpiring(91, 5, 10), testNow),
	})

	assert.Len(t, tracker.Critical, 1)
	assert.Len(t, tracker.Warning, 2)
	assert.Len(t, tracker.Caution, 2)
	assert.Empty(t, tracker.Expired)
}

func TestGroupByUrgencyEmptySlicesNotNil(t *testing.T) {
	tracker := groupByUrgency(nil)
	assert.NotNil(t, tracker.Critical)
	assert.NotNil(t, tracker.Warning)
	assert.NotNil(t, tracker.Caution)
	assert.NotNil(t, tracker.Expired)
}

func TestSetAutoRestock(t *testing.T) {
	userID := uuid.New()
	pharmacy := &model.Pharmacy{ID: uuid.New(), UserID: userID}

	newService := func(lot *model.InventoryLot, saved *bool) InventoryService {
		pharmacyRepo := &fakePharmacyRepo{
			findByUserID: func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
		}
		inventoryRepo := &fakeInventoryRepo{
			findByID: func(uuid.UUID) (*model.InventoryLot, error) { return lot, nil },
			save: func(*model.InventoryLot) error {
				*saved = true
				return nil
			},
		}
		return NewInventoryService(inventoryRepo, pharmacyRepo, fakeDrugRepo{}, &fakeAuditRepo{}, fakeTxManager{}, ws.NewHub())
	}

	t.Run("manual lot cannot be enabled", func(t *testing.T) {
		lot := lotExpiring(100, 50, 10)
		lot.ID = uuid.New()
		lot.PharmacyID = pharmacy.ID
		lot.IsManual = true

		var saved bool
		svc := newService(lot, &saved)

		_, err := svc.SetAutoRestock(context.Background(), userID.String(), lot.ID.String(), SetAutoRestockRequest{Enabled: true})
		assert.ErrorIs(t, err, ErrManualAutoRestock)
		assert.False(t, saved)
		assert.False(t, lot.AutoRestock)
	})

	t.Run("manual lot can still be disabled", func(t *testing.T) {
		lot := lotExpiring(100, 50, 10)
		lot.ID = uuid.New()
		lot.PharmacyID = pharmacy.ID
		lot.IsManual = true
		lot.AutoRestock = false

		var saved bool
		svc := newService(lot, &saved)

		_, err := svc.SetAutoRestock(context.Background(), userID.String(), lot.ID.String(), SetAutoRestockRequest{Enabled: false})
		assert.NoError(t, err)
		assert.True(t, saved)
	})

	t.Run("platform lot toggles on", func(t *testing.T) {
		lot := lotExpiring(100, 50, 10)
		lot.ID = uuid.New()
		lot.PharmacyID = pharmacy.ID

		var saved bool
		svc := newService(lot, &saved)

		res, err := svc.SetAutoRestock(context.Background(), userID.String(), lot.ID.String(), SetAutoRestockRequest{Enabled: true})
		require.NoError(t, err)
		assert.True(t, saved)
		assert.True(t, res.AutoRestock)
	})
}
