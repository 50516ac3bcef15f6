package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajedamilola/pharmalink/internal/model"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuybackIndex(t *testing.T) {
	assert.Equal(t, 0, buybackIndex(model.BuybackPending))
	assert.Equal(t, 1, buybackIndex(model.BuybackAdminApproved))
	assert.Equal(t, 2, buybackIndex(model.BuybackVendorMatched))
	assert.Equal(t, 3, buybackIndex(model.BuybackCompleted))
	assert.Equal(t, -1, buybackIndex(model.BuybackDeclined), "declined sits outside the chain")
	assert.Equal(t, -1, buybackIndex(""))
}

func newBuybackFixture(t *testing.T) (*model.Pharmacy, *model.InventoryLot) {
	t.Helper()
	pharmacy := &model.Pharmacy{ID: uuid.New(), UserID: uuid.New(), Name: "HealthFirst Yaba"}
	lot := &model.InventoryLot{
		ID:         uuid.New(),
		PharmacyID: pharmacy.ID,
		DrugID:     uuid.New(),
		Drug: model.Drug{
			Name:            "Paracetamol 500mg",
			UnitPrice:       decimal.NewFromInt(120),
			ShelfLifeMonths: 24,
		},
		StockLevel: 40,
		ExpiryDate: time.Now().Add(20 * 24 * time.Hour),
	}
	return pharmacy, lot
}

func newBuybackService(
	buybackRepo *fakeBuybackRepo,
	inventoryRepo *fakeInventoryRepo,
	pharmacyRepo *fakePharmacyRepo,
	notifRepo *fakeNotificationRepo,
) BuybackService {
	return NewBuybackService(
		buybackRepo,
		inventoryRepo,
		&fakeListingRepo{},
		pharmacyRepo,
		&fakeUserRepo{},
		notifRepo,
		&fakeAuditRepo{},
		fakeTxManager{},
		ws.NewHub(),
	)
}

func TestAdvanceMovesOneStepOnly(t *testing.T) {
	pharmacy, _ := newBuybackFixture(t)

	advance := func(from, to string) (*BuybackResponse, string, error) {
		buyback := &model.BuybackRequest{
			ID:         uuid.New(),
			PharmacyID: pharmacy.ID,
			Drug:       model.Drug{Name: "Paracetamol 500mg"},
			Status:     from,
		}
		var savedStatus string
		buybackRepo := &fakeBuybackRepo{
			findByID: func(uuid.UUID) (*model.BuybackRequest, error) { return buyback, nil },
			save: func(req *model.BuybackRequest) error {
				savedStatus = req.Status
				return nil
			},
		}
		pharmacyRepo := &fakePharmacyRepo{
			findByID: func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
		}
		svc := newBuybackService(buybackRepo, &fakeInventoryRepo{}, pharmacyRepo, &fakeNotificationRepo{})
		res, err := svc.Advance(context.Background(), uuid.NewString(), buyback.ID.String(), AdvanceBuybackRequest{Status: to})
		return res, savedStatus, err
	}

	t.Run("approved to matched", func(t *testing.T) {
		res, saved, err := advance(model.BuybackAdminApproved, model.BuybackVendorMatched)
		require.NoError(t, err)
		assert.Equal(t, model.BuybackVendorMatched, res.Status)
		assert.Equal(t, model.BuybackVendorMatched, saved)
	})

	t.Run("matched to completed", func(t *testing.T) {
		res, _, err := advance(model.BuybackVendorMatched, model.BuybackCompleted)
		require.NoError(t, err)
		assert.Equal(t, model.BuybackCompleted, res.Status)
	})

	t.Run("approved cannot skip to completed", func(t *testing.T) {
		_, saved, err := advance(model.BuybackAdminApproved, model.BuybackCompleted)
		assert.ErrorIs(t, err, ErrBuybackBackward)
		assert.Empty(t, saved)
	})

	t.Run("matched cannot fall back", func(t *testing.T) {
		_, saved, err := advance(model.BuybackVendorMatched, model.BuybackVendorMatched)
		assert.ErrorIs(t, err, ErrBuybackBackward)
		assert.Empty(t, saved)
	})

	t.Run("declined stays closed", func(t *testing.T) {
		_, _, err := advance(model.BuybackDeclined, model.BuybackVendorMatched)
		assert.ErrorIs(t, err, ErrBuybackNotOpen)
	})
}

func TestSuggestNotifiesPharmacy(t *testing.T) {
	pharmacy, lot := newBuybackFixture(t)

	var created []model.Notification
	inventoryRepo := &fakeInventoryRepo{
		findByID: func(uuid.UUID) (*model.InventoryLot, error) { return lot, nil },
	}
	pharmacyRepo := &fakePharmacyRepo{
		findByID: func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
	}
	notifRepo := &fakeNotificationRepo{create: func(n *model.Notification) error {
		created = append(created, *n)
		return nil
	}}

	svc := newBuybackService(&fakeBuybackRepo{}, inventoryRepo, pharmacyRepo, notifRepo)

	err := svc.Suggest(context.Background(), uuid.NewString(), SuggestBuybackRequest{LotID: lot.ID.String()})
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, pharmacy.UserID, created[0].UserID)
	assert.Equal(t, model.NotifyAdminSuggestion, created[0].Type)
	assert.Equal(t, "Admin suggests buy-back for Paracetamol 500mg (expiring soon)", created[0].Message)
}

func TestSubmitFlagsSuggestedStock(t *testing.T) {
	for _, suggested := range []bool{true, false} {
		pharmacy, lot := newBuybackFixture(t)

		var created *model.BuybackRequest
		buybackRepo := &fakeBuybackRepo{create: func(req *model.BuybackRequest) error {
			created = req
			return nil
		}}
		inventoryRepo := &fakeInventoryRepo{
			findByID: func(uuid.UUID) (*model.InventoryLot, error) { return lot, nil },
		}
		pharmacyRepo := &fakePharmacyRepo{
			findByUserID: func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
		}
		notifRepo := &fakeNotificationRepo{
			hasSuggestionFor: func(userID uuid.UUID, drugName string) (bool, error) {
				assert.Equal(t, pharmacy.UserID, userID)
				assert.Equal(t, lot.Drug.Name, drugName)
				return suggested, nil
			},
		}

		svc := newBuybackService(buybackRepo, inventoryRepo, pharmacyRepo, notifRepo)

		res, err := svc.Submit(context.Background(), pharmacy.UserID.String(), SubmitBuybackRequest{
			LotID:    lot.ID.String(),
			Quantity: 10,
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, suggested, created.AdminSuggestion)
		assert.Equal(t, suggested, res.AdminSuggestion)
	}
}
