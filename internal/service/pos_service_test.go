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

func TestProcessSaleChargesLotDrugPrice(t *testing.T) {
	userID := uuid.New()
	pharmacy := &model.Pharmacy{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "MedPlus Ikeja",
		WalletBalance: decimal.NewFromInt(100),
	}
	lot := &model.InventoryLot{
		ID:         uuid.New(),
		PharmacyID: pharmacy.ID,
		DrugID:     uuid.New(),
		Drug: model.Drug{
			Name:      "Amoxicillin 500mg",
			UnitPrice: decimal.RequireFromString("250.00"),
		},
		StockLevel: 50,
		ExpiryDate: time.Now().Add(365 * 24 * time.Hour),
	}

	var (
		savedLot      *model.InventoryLot
		createdSale   *model.POSSale
		ledger        *model.Transaction
		walletCredit  decimal.Decimal
		walletUpdated bool
	)
	pharmacyRepo := &fakePharmacyRepo{
		findByUserID:      func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
		findByIDForUpdate: func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
		updateWalletBalance: func(id uuid.UUID, balance decimal.Decimal) error {
			walletUpdated = true
			walletCredit = balance
			return nil
		},
	}
	inventoryRepo := &fakeInventoryRepo{
		findByIDForUpdate: func(uuid.UUID) (*model.InventoryLot, error) { return lot, nil },
		save: func(l *model.InventoryLot) error {
			savedLot = l
			return nil
		},
	}
	posRepo := &fakePOSRepo{createSale: func(sale *model.POSSale) error {
		createdSale = sale
		return nil
	}}
	txRepo := &fakeTransactionRepo{create: func(tx *model.Transaction) error {
		ledger = tx
		return nil
	}}
	restock := &fakeRestock{}

	svc := NewPOSService(posRepo, inventoryRepo, pharmacyRepo, txRepo, fakeTxManager{}, restock, ws.NewHub())

	res, err := svc.ProcessSale(context.Background(), userID.String(), ProcessSaleRequest{
		LotID:    lot.ID.String(),
		Quantity: 4,
	})
	require.NoError(t, err)

	// The locked lot row carries its drug, so the sale prices off the
	// real unit price rather than a zero value.
	assert.True(t, res.TotalPrice.Equal(decimal.NewFromInt(1000)), "total was %s", res.TotalPrice)
	assert.True(t, res.UnitPrice.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, "Amoxicillin 500mg", res.DrugName)
	assert.Equal(t, 46, res.StockLevel)
	assert.True(t, res.WalletBalance.Equal(decimal.NewFromInt(1100)), "balance was %s", res.WalletBalance)

	require.NotNil(t, createdSale)
	assert.True(t, createdSale.TotalPrice.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, savedLot)
	assert.Equal(t, 46, savedLot.StockLevel)

	require.True(t, walletUpdated)
	assert.True(t, walletCredit.Equal(decimal.NewFromInt(1100)))
	require.NotNil(t, ledger)
	assert.Equal(t, model.TxTypeCredit, ledger.Type)
	assert.True(t, ledger.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Contains(t, ledger.Description, "Amoxicillin 500mg")

	// The committed sale still triggers the auto-restock check on the lot.
	assert.Equal(t, []string{lot.ID.String()}, restock.raised)
}

func TestProcessSaleRejectsExpiredLot(t *testing.T) {
	userID := uuid.New()
	pharmacy := &model.Pharmacy{ID: uuid.New(), UserID: userID}
	lot := &model.InventoryLot{
		ID:         uuid.New(),
		PharmacyID: pharmacy.ID,
		Drug:       model.Drug{Name: "Ibuprofen 200mg", UnitPrice: decimal.NewFromInt(80)},
		StockLevel: 10,
		ExpiryDate: time.Now().Add(-24 * time.Hour),
	}

	var soldOrSaved bool
	pharmacyRepo := &fakePharmacyRepo{
		findByUserID:      func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
		findByIDForUpdate: func(uuid.UUID) (*model.Pharmacy, error) { return pharmacy, nil },
	}
	inventoryRepo := &fakeInventoryRepo{
		findByIDForUpdate: func(uuid.UUID) (*model.InventoryLot, error) { return lot, nil },
		save: func(*model.InventoryLot) error {
			soldOrSaved = true
			return nil
		},
	}
	posRepo := &fakePOSRepo{createSale: func(*model.POSSale) error {
		soldOrSaved = true
		return nil
	}}

	svc := NewPOSService(posRepo, inventoryRepo, pharmacyRepo, &fakeTransactionRepo{}, fakeTxManager{}, &fakeRestock{}, ws.NewHub())

	_, err := svc.ProcessSale(context.Background(), userID.String(), ProcessSaleRequest{
		LotID:    lot.ID.String(),
		Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrSaleExpiredLot)
	assert.False(t, soldOrSaved)
}
