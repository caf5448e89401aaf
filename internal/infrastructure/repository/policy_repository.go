package repository

import (
	"context"
	"errors"

	"github.com/sigortaci/acente-api/internal/domain/entity"
	"github.com/sigortaci/acente-api/internal/domain/enum"
	domainRepo "github.com/sigortaci/acente-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *gorm.DB) domainRepo.PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) Create(ctx context.Context, policy *entity.Policy) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(policy).Error; err != nil {
			return err
		}
		return createFiles(tx, policy.ID, policy.Files)
	})
	return translateError(err)
}

func (r *policyRepository) GetByID(ctx context.Context, id uint) (*entity.Policy, error) {
	var policy entity.Policy
	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&policy, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &policy, err
}

func (r *policyRepository) GetByNumber(ctx context.Context, number string) (*entity.Policy, error) {
	var policy entity.Policy
	err := r.db.WithContext(ctx).First(&policy, "policy_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &policy, err
}

// Update saves the policy row and, when files is non-nil, swaps the attachment
// list in the same transaction. Rows whose URL is no longer referenced are returned
// so the caller can remove them from storage after commit.
func (r *policyRepository) Update(ctx context.Context, policy *entity.Policy, files *[]entity.PolicyFile) ([]entity.PolicyFile, error) {
	var removed []entity.PolicyFile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(policy).Error; err != nil {
			return err
		}
		if files == nil {
			return nil
		}

		var existing []entity.PolicyFile
		if err := tx.Where("policy_id = ?", policy.ID).Find(&existing).Error; err != nil {
			return err
		}
		if err := tx.Where("policy_id = ?", policy.ID).Delete(&entity.PolicyFile{}).Error; err != nil {
			return err
		}

		next := make([]entity.PolicyFile, len(*files))
		copy(next, *files)
		if err := createFiles(tx, policy.ID, next); err != nil {
			return err
		}
		policy.Files = next

		var err error
		removed, err = unreferenced(tx, existing)
		return err
	})
	if err != nil {
		return nil, translateError(err)
	}
	return removed, nil
}

// Delete removes the policy and its file rows in one transaction
func (r *policyRepository) Delete(ctx context.Context, id uint) ([]entity.PolicyFile, error) {
	var files []entity.PolicyFile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("policy_id = ?", id).Find(&files).Error; err != nil {
			return err
		}
		if err := tx.Where("policy_id = ?", id).Delete(&entity.PolicyFile{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.Policy{}, "id = ?", id).Error; err != nil {
			return err
		}
		var err error
		files, err = unreferenced(tx, files)
		return err
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *policyRepository) List(ctx context.Context, filter domainRepo.PolicyFilter) ([]entity.Policy, int64, error) {
	var policies []entity.Policy
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Policy{}).
		Scopes(
			SearchScope(filter.Search, "policy_number", "customer_name", "plate_number", "customer_national_id"),
			DateRangeScope("start_date", filter.DateRange),
		)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(PaginateScope(filter.Pagination)).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("start_date DESC, id DESC").
		Find(&policies).Error

	return policies, total, err
}

func (r *policyRepository) NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&entity.Policy{}).
		Where("policy_number LIKE ?", prefix+"%").
		Pluck("policy_number", &numbers).Error
	return numbers, err
}

func (r *policyRepository) CountRecords(ctx context.Context, id uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.AccountingRecord{}).
		Where("policy_id = ?", id).
		Count(&total).Error
	return total, err
}

func (r *policyRepository) Count(ctx context.Context, status *enum.PolicyStatus) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&entity.Policy{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Count(&total).Error
	return total, err
}

func createFiles(tx *gorm.DB, policyID uint, files []entity.PolicyFile) error {
	if len(files) == 0 {
		return nil
	}
	for i := range files {
		files[i].ID = 0
		files[i].PolicyID = policyID
	}
	return tx.Create(&files).Error
}

type policyFileRepository struct {
	db *gorm.DB
}

// NewPolicyFileRepository creates a new policy file repository
func NewPolicyFileRepository(db *gorm.DB) domainRepo.PolicyFileRepository {
	return &policyFileRepository{db: db}
}

func (r *policyFileRepository) Create(ctx context.Context, file *entity.PolicyFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *policyFileRepository) GetByID(ctx context.Context, id uint) (*entity.PolicyFile, error) {
	var file entity.PolicyFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &file, err
}

func (r *policyFileRepository) ListByPolicy(ctx context.Context, policyID uint) ([]entity.PolicyFile, error) {
	var files []entity.PolicyFile
	err := r.db.WithContext(ctx).
		Where("policy_id = ?", policyID).
		Order("id ASC").
		Find(&files).Error
	return files, err
}

// Delete removes one attachment row. The row is returned when no other
// attachment shares its URL, meaning the binary can go too.
func (r *policyFileRepository) Delete(ctx context.Context, id uint) ([]entity.PolicyFile, error) {
	var orphaned []entity.PolicyFile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var file entity.PolicyFile
		if err := tx.First(&file, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.PolicyFile{}, "id = ?", id).Error; err != nil {
			return err
		}
		var err error
		orphaned, err = unreferenced(tx, []entity.PolicyFile{file})
		return err
	})
	if err != nil {
		return nil, err
	}
	return orphaned, nil
}

// unreferenced keeps the files whose URL no policy_files row points at any
// more. Run it after the deletes and inserts of the same transaction.
func unreferenced(tx *gorm.DB, files []entity.PolicyFile) ([]entity.PolicyFile, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, f.URL)
	}
	var inUse []string
	if err := tx.Model(&entity.PolicyFile{}).Where("url IN ?", urls).Distinct().Pluck("url", &inUse).Error; err != nil {
		return nil, err
	}

	used := make(map[string]bool, len(inUse))
	for _, u := range inUse {
		used[u] = true
	}
	var out []entity.PolicyFile
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if used[f.URL] || seen[f.URL] {
			continue
		}
		seen[f.URL] = true
		out = append(out, f)
	}
	return out, nil
}
