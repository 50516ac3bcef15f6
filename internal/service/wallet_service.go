package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")

// DTOs
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type WalletResponse struct {
	PharmacyID         uuid.UUID       `json:"pharmacy_id"`
	Balance            decimal.Decimal `json:"balance"`
	DirectDebitEnabled bool            `json:"direct_debit_enabled"`
}

type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type WalletService interface {
	Balance(ctx context.Context, userID string) (*WalletResponse, error)
	TopUp(ctx context.Context, userID string, req TopUpRequest) (*WalletResponse, error)
	ListTransactions(ctx context.Context, userID string, page, limit int) ([]TransactionResponse, int64, error)
}

type walletService struct {
	pharmacyRepo repository.PharmacyRepository
	txRepo       repository.TransactionRepository
	txManager    repository.TransactionManager
}

func NewWalletService(
	pharmacyRepo repository.PharmacyRepository,
	txRepo repository.TransactionRepository,
	txManager repository.TransactionManager,
) WalletService {
	return &walletService{
		pharmacyRepo: pharmacyRepo,
		txRepo:       txRepo,
		txManager:    txManager,
	}
}

func (s *walletService) Balance(ctx context.Context, userID string) (*WalletResponse, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}
	return &WalletResponse{
		PharmacyID:         pharmacy.ID,
		Balance:            pharmacy.WalletBalance,
		DirectDebitEnabled: pharmacy.DirectDebitEnabled,
	}, nil
}

// TopUp credits the wallet and writes the matching ledger row atomically.
func (s *walletService) TopUp(ctx context.Context, userID string, req TopUpRequest) (*WalletResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, err
	}

	var balance decimal.Decimal
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := s.pharmacyRepo.FindByIDForUpdate(txCtx, pharmacy.ID)
		if err != nil {
			return fmt.Errorf("failed to lock wallet: %w", err)
		}

		balance = locked.WalletBalance.Add(req.Amount.Round(2))
		if err := s.pharmacyRepo.UpdateWalletBalance(txCtx, pharmacy.ID, balance); err != nil {
			return fmt.Errorf("failed to credit wallet: %w", err)
		}

		ledger := &model.Transaction{
			PharmacyID:  pharmacy.ID,
			Type:        model.TxTypeCredit,
			Amount:      req.Amount.Round(2),
			Reference:   fmt.Sprintf("TOPUP-%d", time.Now().Unix()),
			Description: "wallet top-up",
		}
		if err := s.txRepo.Create(txCtx, ledger); err != nil {
			return fmt.Errorf("failed to write ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &WalletResponse{
		PharmacyID:         pharmacy.ID,
		Balance:            balance,
		DirectDebitEnabled: pharmacy.DirectDebitEnabled,
	}, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userID string, page, limit int) ([]TransactionResponse, int64, error) {
	pharmacy, err := resolvePharmacy(ctx, s.pharmacyRepo, userID)
	if err != nil {
		return nil, 0, err
	}

	txs, total, err := s.txRepo.ListByPharmacy(ctx, pharmacy.ID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		res = append(res, TransactionResponse{
			ID:          t.ID,
			Type:        t.Type,
			Amount:      t.Amount,
			Reference:   t.Reference,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		})
	}
	return res, total, nil
}
