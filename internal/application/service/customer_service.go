package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name       string
	NationalID string
	Email      *string
	Phone      *string
	Address    *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		Name:       strings.TrimSpace(input.Name),
		NationalID: strings.TrimSpace(input.NationalID),
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("national id already exists")
		}
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers returns customers in Turkish alphabetical order. A nil params
// returns every match.
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, err := s.customerRepo.List(ctx, repository.CustomerFilter{Search: search})
	if err != nil {
		return nil, err
	}

	sortByTurkishName(customers,
		func(c *entity.Customer) string { return c.Name },
		func(c *entity.Customer) uint { return c.ID },
	)
	return pagination.Slice(customers, params), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID         uint
	Name       string
	NationalID string
	Email      *string
	Phone      *string
	Address    *string
}

// UpdateCustomer overwrites a customer. Its policies pick up the new name and
// national id in the same transaction.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.NationalID = strings.TrimSpace(input.NationalID)
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperror.NewConflictError("national id already exists")
		}
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer removes a customer that has no policies and no accounting records
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}

	policies, err := s.customerRepo.CountPolicies(ctx, id)
	if err != nil {
		return err
	}
	if policies > 0 {
		return apperror.NewConflictError("customer has policies and cannot be deleted")
	}

	records, err := s.customerRepo.CountRecords(ctx, id)
	if err != nil {
		return err
	}
	if records > 0 {
		return apperror.NewConflictError("customer has accounting records and cannot be deleted")
	}

	return s.customerRepo.Delete(ctx, id)
}

func validateCustomer(c *entity.Customer) error {
	var fields []apperror.FieldError
	if c.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if !isNationalID(c.NationalID) {
		fields = append(fields, apperror.FieldError{Field: "national_id", Message: "must be 11 digits"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

func isNationalID(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
