package repository

import (
	"context"

	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
)

// PolicyRepository defines the interface for policy data operations
type PolicyRepository interface {
	// Create inserts the policy and its Files in one transaction.
	// A policy_number collision yields ErrDuplicateKey.
	Create(ctx context.Context, policy *entity.Policy) error
	GetByID(ctx context.Context, id uint) (*entity.Policy, error)
	GetByNumber(ctx context.Context, number string) (*entity.Policy, error)
	// Update saves the policy row. When files is non-nil the file list is
	// replaced wholesale inside the same transaction and the removed rows are returned.
	Update(ctx context.Context, policy *entity.Policy, files *[]entity.PolicyFile) ([]entity.PolicyFile, error)
	// Delete removes the policy with its file rows and returns those rows
	Delete(ctx context.Context, id uint) ([]entity.PolicyFile, error)
	List(ctx context.Context, filter PolicyFilter) ([]entity.Policy, int64, error)
	// NumbersWithPrefix returns every policy number starting with prefix
	NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
	CountRecords(ctx context.Context, id uint) (int64, error)
	Count(ctx context.Context, status *enum.PolicyStatus) (int64, error)
}

// PolicyFileRepository defines the interface for policy attachments
type PolicyFileRepository interface {
	Create(ctx context.Context, file *entity.PolicyFile) error
	GetByID(ctx context.Context, id uint) (*entity.PolicyFile, error)
	ListByPolicy(ctx context.Context, policyID uint) ([]entity.PolicyFile, error)
	// Delete returns the row when its URL is no longer referenced anywhere
	Delete(ctx context.Context, id uint) ([]entity.PolicyFile, error)
}
