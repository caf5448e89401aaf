package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/pagination"
)

// AccountingService handles income and expense records
type AccountingService struct {
	accountingRepo repository.AccountingRepository
	customerRepo   repository.CustomerRepository
	policyRepo     repository.PolicyRepository
}

// NewAccountingService creates a new accounting service
func NewAccountingService(
	accountingRepo repository.AccountingRepository,
	customerRepo repository.CustomerRepository,
	policyRepo repository.PolicyRepository,
) *AccountingService {
	return &AccountingService{
		accountingRepo: accountingRepo,
		customerRepo:   customerRepo,
		policyRepo:     policyRepo,
	}
}

// RecordInput carries the writable fields of an accounting record.
// CustomerID may be omitted when PolicyID is set; the customer then comes
// from the policy.
type RecordInput struct {
	CustomerID      *uint
	PolicyID        *uint
	PlateNumber     *string
	TransactionDate time.Time
	Amount          decimal.Decimal
	Type            enum.AccountingType
	Description     *string
}

// CreateRecord stores a new accounting record
func (s *AccountingService) CreateRecord(ctx context.Context, input *RecordInput) (*entity.AccountingRecord, error) {
	record := &entity.AccountingRecord{}
	if err := s.apply(ctx, record, input); err != nil {
		return nil, err
	}

	if err := s.accountingRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return s.GetRecord(ctx, record.ID)
}

// GetRecord retrieves a record with its customer
func (s *AccountingService) GetRecord(ctx context.Context, id uint) (*entity.AccountingRecord, error) {
	record, err := s.accountingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Accounting record")
	}
	return record, nil
}

// ListRecords lists records by transaction_date DESC, id DESC
func (s *AccountingService) ListRecords(ctx context.Context, filter repository.AccountingFilter) (*pagination.PaginatedResult[entity.AccountingRecord], error) {
	records, total, err := s.accountingRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var pag *pagination.Pagination
	if filter.Pagination != nil {
		pag = pagination.NewPagination(filter.Pagination.Page, filter.Pagination.PerPage, total)
	}
	return pagination.NewPaginatedResult(records, pag), nil
}

// UpdateRecord overwrites an existing record
func (s *AccountingService) UpdateRecord(ctx context.Context, id uint, input *RecordInput) (*entity.AccountingRecord, error) {
	record, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Customer = nil

	if err := s.apply(ctx, record, input); err != nil {
		return nil, err
	}
	if err := s.accountingRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return s.GetRecord(ctx, id)
}

// DeleteRecord removes a record
func (s *AccountingService) DeleteRecord(ctx context.Context, id uint) error {
	if _, err := s.GetRecord(ctx, id); err != nil {
		return err
	}
	return s.accountingRepo.Delete(ctx, id)
}

// apply validates input, resolves the owning customer and copies the fields onto record
func (s *AccountingService) apply(ctx context.Context, record *entity.AccountingRecord, input *RecordInput) error {
	var fields []apperror.FieldError
	if input.TransactionDate.IsZero() {
		fields = append(fields, apperror.FieldError{Field: "transaction_date", Message: "is required"})
	}
	if input.Amount.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "amount", Message: "must not be negative"})
	}
	if !input.Type.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "type", Message: "must be Gelir or Gider"})
	}
	if input.CustomerID == nil && input.PolicyID == nil {
		fields = append(fields, apperror.FieldError{Field: "customer_id", Message: "is required"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}

	customerID := input.CustomerID
	plate := normalizePlate(input.PlateNumber)

	if input.PolicyID != nil {
		policy, err := s.policyRepo.GetByID(ctx, *input.PolicyID)
		if err != nil {
			return err
		}
		if policy == nil {
			return apperror.NewNotFoundError("Policy")
		}
		if customerID == nil {
			customerID = &policy.CustomerID
		} else if *customerID != policy.CustomerID {
			return apperror.NewFieldError("policy_id", "belongs to a different customer")
		}
		if plate == nil {
			plate = policy.PlateNumber
		}
	}

	customer, err := s.customerRepo.GetByID(ctx, *customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	record.CustomerID = customer.ID
	record.PolicyID = input.PolicyID
	record.PlateNumber = plate
	record.TransactionDate = input.TransactionDate
	record.Amount = input.Amount.Round(2)
	record.Type = input.Type
	record.Description = input.Description
	return nil
}
