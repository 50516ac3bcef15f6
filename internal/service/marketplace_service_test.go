package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajedamilola/pharmalink/internal/model"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestLineCharges(t *testing.T) {
	rate := decimal.NewFromFloat(0.05)

	t.Run("fee is five percent of the goods subtotal", func(t *testing.T) {
		subtotal, fee := lineCharges(decimal.NewFromFloat(250.00), 4, rate)
		assert.True(t, subtotal.Equal(decimal.NewFromFloat(1000.00)), "subtotal %s", subtotal)
		assert.True(t, fee.Equal(decimal.NewFromFloat(50.00)), "fee %s", fee)
	})

	t.Run("fee rounds to two decimal places", func(t *testing.T) {
		subtotal, fee := lineCharges(decimal.NewFromFloat(33.33), 1, rate)
		assert.True(t, subtotal.Equal(decimal.NewFromFloat(33.33)))
		// 33.33 * 0.05 = 1.6665
		assert.True(t, fee.Equal(decimal.NewFromFloat(1.67)), "fee %s", fee)
	})

	t.Run("zero rate charges no fee", func(t *testing.T) {
		_, fee := lineCharges(decimal.NewFromFloat(120.00), 3, decimal.Zero)
		assert.True(t, fee.IsZero())
	})
}

func TestCheckoutNamesDrugsInOrdersAndNotices(t *testing.T) {
	userID := uuid.New()
	pharmacy := &model.Pharmacy{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "MedPlus Ikeja",
		AccountStatus: model.AccountActive,
		WalletBalance: decimal.NewFromInt(2000),
	}
	vendor := &model.Vendor{ID: uuid.New(), UserID: uuid.New(), Name: "Emzor Distribution"}
	listing := &model.MarketplaceListing{
		ID:                uuid.New(),
		DrugID:            uuid.New(),
		Drug:              model.Drug{Name: "Metformin 500mg"},
		VendorID:          &vendor.ID,
		Source:            model.OrderSourceVendor,
		UnitPrice:         decimal.NewFromInt(200),
		QuantityAvailable: 30,
		Status:            model.ListingActive,
	}

	var notified []model.Notification
	pharmacyRepo := &fakePharmacyRepo{
		findByUserID:      func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
		findByIDForUpdate: func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
	}
	listingRepo := &fakeListingRepo{
		findByIDForUpdate: func(uuid.UUID) (*model.MarketplaceListing, error) { return listing, nil },
	}
	vendorRepo := &fakeVendorRepo{
		findByID: func(uuid.UUID) (*model.Vendor, error) { return vendor, nil },
	}
	notifRepo := &fakeNotificationRepo{create: func(n *model.Notification) error {
		notified = append(notified, *n)
		return nil
	}}

	svc := NewMarketplaceService(
		listingRepo,
		&fakeOrderRepo{},
		fakeDrugRepo{},
		pharmacyRepo,
		vendorRepo,
		&fakeTransactionRepo{},
		&fakeConfigRepo{},
		notifRepo,
		&fakeAuditRepo{},
		fakeTxManager{},
		ws.NewHub(),
	)

	res, err := svc.Checkout(context.Background(), userID.String(), CheckoutRequest{
		Items: []CheckoutItemRequest{{ListingID: listing.ID.String(), Quantity: 5}},
	})
	require.NoError(t, err)

	// The locked listing row carries its drug and seller, so order lines
	// and the vendor's inbox name the product.
	require.Len(t, res.Orders, 1)
	assert.Equal(t, "Metformin 500mg", res.Orders[0].DrugName)
	assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(1000)), "subtotal %s", res.Subtotal)
	assert.True(t, res.LogisticsFee.Equal(decimal.NewFromInt(50)), "fee %s", res.LogisticsFee)
	assert.True(t, res.WalletBalance.Equal(decimal.NewFromInt(950)), "balance %s", res.WalletBalance)
	assert.Equal(t, 25, listing.QuantityAvailable)

	require.Len(t, notified, 1)
	assert.Equal(t, vendor.UserID, notified[0].UserID)
	assert.Equal(t, model.NotifyOrder, notified[0].Type)
	assert.Equal(t, "New order: 5 x Metformin 500mg from MedPlus Ikeja", notified[0].Message)
}
