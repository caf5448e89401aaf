package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	"github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/internal/infrastructure/storage"
	"github.com/sigortaci/acente-api/pkg/apperror"
	"github.com/sigortaci/acente-api/pkg/pagination"
	"go.uber.org/zap"
)

// FileStore persists uploaded binaries and removes them again
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*storage.StoredFile, error)
	Remove(url string) error
}

// PolicyService handles policy-related operations
type PolicyService struct {
	policyRepo   repository.PolicyRepository
	customerRepo repository.CustomerRepository
	numbers      *PolicyNumberGenerator
	files        FileStore
	log          *zap.Logger
	now          func() time.Time
}

// NewPolicyService creates a new policy service
func NewPolicyService(
	policyRepo repository.PolicyRepository,
	customerRepo repository.CustomerRepository,
	files FileStore,
	log *zap.Logger,
) *PolicyService {
	return &PolicyService{
		policyRepo:   policyRepo,
		customerRepo: customerRepo,
		numbers:      NewPolicyNumberGenerator(policyRepo),
		files:        files,
		log:          log,
		now:          time.Now,
	}
}

// PolicyFileInput describes an already uploaded file to attach
type PolicyFileInput struct {
	Name     string
	URL      string
	MimeType string
	Size     int64
}

// CreatePolicyInput represents the create policy input. An empty PolicyNumber
// asks for a generated one.
type CreatePolicyInput struct {
	PolicyNumber string
	CustomerID   uint
	PlateNumber  *string
	StartDate    time.Time
	EndDate      time.Time
	Premium      decimal.Decimal
	Type         enum.PolicyType
	Status       enum.PolicyStatus
	Description  *string
	Files        []PolicyFileInput
}

// CreatePolicy creates a policy together with its files
func (s *PolicyService) CreatePolicy(ctx context.Context, input *CreatePolicyInput) (*entity.Policy, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	policy := &entity.Policy{
		PolicyNumber: strings.TrimSpace(input.PolicyNumber),
		PlateNumber:  normalizePlate(input.PlateNumber),
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Premium:      input.Premium,
		Type:         input.Type,
		Status:       input.Status,
		Description:  input.Description,
		Files:        toPolicyFiles(input.Files),
	}
	if policy.Status == "" {
		policy.Status = enum.PolicyStatusActive
	}
	policy.SyncCustomer(customer)

	if err := validatePolicy(policy, input.Files); err != nil {
		return nil, err
	}

	if policy.PolicyNumber != "" {
		if err := s.policyRepo.Create(ctx, policy); err != nil {
			return nil, policyConflict(err)
		}
		return policy, nil
	}

	year := s.now().Year()
	for attempt := 0; attempt < maxPolicyNumberAttempts; attempt++ {
		number, err := s.numbers.Next(ctx, year)
		if err != nil {
			return nil, err
		}
		policy.ID = 0
		policy.PolicyNumber = number

		err = s.policyRepo.Create(ctx, policy)
		if err == nil {
			return policy, nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return nil, err
		}
		s.log.Warn("Generated policy number taken, retrying",
			zap.String("policy_number", number), zap.Int("attempt", attempt+1))
	}

	return nil, apperror.NewConflictError("could not allocate a policy number, please retry")
}

// NextPolicyNumber previews the number the next generated policy of year would get
func (s *PolicyService) NextPolicyNumber(ctx context.Context, year int) (string, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < 1900 || year > 9999 {
		return "", apperror.NewFieldError("year", "must be a four digit year")
	}
	return s.numbers.Next(ctx, year)
}

// GetPolicy retrieves a policy with its files
func (s *PolicyService) GetPolicy(ctx context.Context, id uint) (*entity.Policy, error) {
	policy, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, apperror.NewNotFoundError("Policy")
	}
	return policy, nil
}

// ListPolicies lists policies by start_date DESC, id DESC
func (s *PolicyService) ListPolicies(ctx context.Context, filter repository.PolicyFilter) (*pagination.PaginatedResult[entity.Policy], error) {
	policies, total, err := s.policyRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var pag *pagination.Pagination
	if filter.Pagination != nil {
		pag = pagination.NewPagination(filter.Pagination.Page, filter.Pagination.PerPage, total)
	}
	return pagination.NewPaginatedResult(policies, pag), nil
}

// UpdatePolicyInput represents the update policy input. A nil Files keeps the
// current attachments, a non-nil one replaces them.
type UpdatePolicyInput struct {
	ID           uint
	PolicyNumber string
	CustomerID   uint
	PlateNumber  *string
	StartDate    time.Time
	EndDate      time.Time
	Premium      decimal.Decimal
	Type         enum.PolicyType
	Status       enum.PolicyStatus // empty keeps the current status
	Description  *string
	Files        *[]PolicyFileInput
}

// UpdatePolicy overwrites a policy and optionally its file list
func (s *PolicyService) UpdatePolicy(ctx context.Context, input *UpdatePolicyInput) (*entity.Policy, error) {
	policy, err := s.GetPolicy(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.CustomerID != policy.CustomerID || policy.CustomerName == "" {
		customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		policy.SyncCustomer(customer)
	}

	if number := strings.TrimSpace(input.PolicyNumber); number != "" {
		policy.PolicyNumber = number
	}
	policy.PlateNumber = normalizePlate(input.PlateNumber)
	policy.StartDate = input.StartDate
	policy.EndDate = input.EndDate
	policy.Premium = input.Premium
	policy.Type = input.Type
	if input.Status != "" {
		policy.Status = input.Status
	}
	policy.Description = input.Description

	var files *[]entity.PolicyFile
	var fileInputs []PolicyFileInput
	if input.Files != nil {
		fileInputs = *input.Files
		next := toPolicyFiles(fileInputs)
		files = &next
	}

	if err := validatePolicy(policy, fileInputs); err != nil {
		return nil, err
	}

	removed, err := s.policyRepo.Update(ctx, policy, files)
	if err != nil {
		return nil, policyConflict(err)
	}
	s.removeStored(removed)

	return policy, nil
}

// DeletePolicy removes a policy and its files unless accounting records point at it
func (s *PolicyService) DeletePolicy(ctx context.Context, id uint) error {
	if _, err := s.GetPolicy(ctx, id); err != nil {
		return err
	}

	records, err := s.policyRepo.CountRecords(ctx, id)
	if err != nil {
		return err
	}
	if records > 0 {
		return apperror.NewConflictError("policy has accounting records and cannot be deleted")
	}

	files, err := s.policyRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.removeStored(files)
	return nil
}

// removeStored deletes binaries after the rows are gone. Failures only leave
// orphaned files behind, so they are logged rather than returned.
func (s *PolicyService) removeStored(files []entity.PolicyFile) {
	for _, f := range files {
		if err := s.files.Remove(f.URL); err != nil {
			s.log.Warn("Failed to remove stored file", zap.String("url", f.URL), zap.Error(err))
		}
	}
}

func policyConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return apperror.NewConflictError("policy number already exists")
	}
	return err
}

func validatePolicy(p *entity.Policy, files []PolicyFileInput) error {
	var fields []apperror.FieldError
	if p.StartDate.IsZero() {
		fields = append(fields, apperror.FieldError{Field: "start_date", Message: "is required"})
	}
	if p.EndDate.IsZero() {
		fields = append(fields, apperror.FieldError{Field: "end_date", Message: "is required"})
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		fields = append(fields, apperror.FieldError{Field: "end_date", Message: "must not be before start_date"})
	}
	if p.Premium.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "premium", Message: "must not be negative"})
	}
	if !p.Type.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "type", Message: "is not a known policy type"})
	}
	if !p.Status.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "status", Message: "is not a known policy status"})
	}
	for _, f := range files {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.URL) == "" {
			fields = append(fields, apperror.FieldError{Field: "files", Message: "every file needs a name and url"})
			break
		}
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

func toPolicyFiles(in []PolicyFileInput) []entity.PolicyFile {
	files := make([]entity.PolicyFile, 0, len(in))
	for _, f := range in {
		files = append(files, entity.PolicyFile{
			Name:     strings.TrimSpace(f.Name),
			URL:      strings.TrimSpace(f.URL),
			MimeType: f.MimeType,
			Size:     f.Size,
		})
	}
	return files
}

// normalizePlate upper-cases and trims a plate number; blank means none
func normalizePlate(plate *string) *string {
	if plate == nil {
		return nil
	}
	p := strings.ToUpper(strings.Join(strings.Fields(*plate), " "))
	if p == "" {
		return nil
	}
	return &p
}
