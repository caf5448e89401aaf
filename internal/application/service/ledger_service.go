package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/pkg/apperror"
)

// LedgerService computes customer balances and running ledgers
type LedgerService struct {
	accountingRepo repository.AccountingRepository
	customerRepo   repository.CustomerRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	accountingRepo repository.AccountingRepository,
	customerRepo repository.CustomerRepository,
) *LedgerService {
	return &LedgerService{
		accountingRepo: accountingRepo,
		customerRepo:   customerRepo,
	}
}

// Balance is a customer's income minus expense over a range
type Balance struct {
	CustomerID       uint            `json:"customer_id"`
	Income           decimal.Decimal `json:"income"`
	Expense          decimal.Decimal `json:"expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int64           `json:"transaction_count"`
}

// LedgerEntry is one record with its running balance
type LedgerEntry struct {
	ID              uint                `json:"id"`
	TransactionDate time.Time           `json:"transaction_date"`
	Type            enum.AccountingType `json:"type"`
	Amount          decimal.Decimal     `json:"amount"`
	SignedAmount    decimal.Decimal     `json:"signed_amount"`
	RunningBalance  decimal.Decimal     `json:"running_balance"`
	PolicyID        *uint               `json:"policy_id,omitempty"`
	PlateNumber     *string             `json:"plate_number,omitempty"`
	Description     *string             `json:"description,omitempty"`
}

// Ledger is a customer's records in date order. OpeningBalance is the sum of
// every record before the range start and seeds the running balance.
type Ledger struct {
	Customer       *entity.Customer `json:"customer"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	TotalIncome    decimal.Decimal  `json:"total_income"`
	TotalExpense   decimal.Decimal  `json:"total_expense"`
	NetAmount      decimal.Decimal  `json:"net_amount"`
	ClosingBalance decimal.Decimal  `json:"closing_balance"`
	Entries        []LedgerEntry    `json:"entries"`
}

// Balance returns income, expense and their difference for a customer
func (s *LedgerService) Balance(ctx context.Context, customerID uint, rng repository.DateRange) (*Balance, error) {
	if _, err := s.customer(ctx, customerID); err != nil {
		return nil, err
	}

	totals, err := s.accountingRepo.Totals(ctx, &customerID, rng)
	if err != nil {
		return nil, err
	}

	return &Balance{
		CustomerID:       customerID,
		Income:           totals.Income,
		Expense:          totals.Expense,
		Balance:          totals.Net(),
		TransactionCount: totals.TransactionCount,
	}, nil
}

// Ledger returns the customer's records ordered by transaction_date then id,
// each with the cumulative balance up to and including it.
func (s *LedgerService) Ledger(ctx context.Context, customerID uint, rng repository.DateRange) (*Ledger, error) {
	customer, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if rng.From != nil {
		before := rng.From.AddDate(0, 0, -1)
		totals, err := s.accountingRepo.Totals(ctx, &customerID, repository.DateRange{To: &before})
		if err != nil {
			return nil, err
		}
		opening = totals.Net()
	}

	records, err := s.accountingRepo.ListForLedger(ctx, customerID, rng)
	if err != nil {
		return nil, err
	}

	ledger := &Ledger{
		Customer:       customer,
		OpeningBalance: opening,
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		Entries:        make([]LedgerEntry, 0, len(records)),
	}

	running := opening
	for i := range records {
		r := &records[i]
		signed := r.SignedAmount()
		running = running.Add(signed)

		if r.Type == enum.AccountingTypeExpense {
			ledger.TotalExpense = ledger.TotalExpense.Add(r.Amount)
		} else {
			ledger.TotalIncome = ledger.TotalIncome.Add(r.Amount)
		}

		ledger.Entries = append(ledger.Entries, LedgerEntry{
			ID:              r.ID,
			TransactionDate: r.TransactionDate,
			Type:            r.Type,
			Amount:          r.Amount,
			SignedAmount:    signed,
			RunningBalance:  running,
			PolicyID:        r.PolicyID,
			PlateNumber:     r.PlateNumber,
			Description:     r.Description,
		})
	}

	ledger.NetAmount = ledger.TotalIncome.Sub(ledger.TotalExpense)
	ledger.ClosingBalance = running
	return ledger, nil
}

func (s *LedgerService) customer(ctx context.Context, id uint) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}
