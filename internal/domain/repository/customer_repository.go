package repository

import (
	"context"

	"github.com/sigortaci/acente-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uint) (*entity.Customer, error)
	GetByNationalID(ctx context.Context, nationalID string) (*entity.Customer, error)
	// Update saves the customer and refreshes the denormalized copies held by its policies
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uint) error
	// List returns every matching customer; ordering is left to the caller
	List(ctx context.Context, filter CustomerFilter) ([]entity.Customer, error)
	Count(ctx context.Context) (int64, error)
	CountPolicies(ctx context.Context, id uint) (int64, error)
	CountRecords(ctx context.Context, id uint) (int64, error)
}
