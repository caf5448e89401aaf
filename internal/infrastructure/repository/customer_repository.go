package repository

import (
	"context"
	"errors"

	"github.com/sigortaci/acente-api/internal/domain/entity"
	domainRepo "github.com/sigortaci/acente-api/internal/domain/repository"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByNationalID(ctx context.Context, nationalID string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "national_id = ?", nationalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

// Update saves the customer and copies its name and national id onto its policies
func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Policies").Save(customer).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Policy{}).
			Where("customer_id = ?", customer.ID).
			Updates(map[string]interface{}{
				"customer_name":        customer.Name,
				"customer_national_id": customer.NationalID,
			}).Error
	})
	return translateError(err)
}

func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, filter domainRepo.CustomerFilter) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(SearchScope(filter.Search, "name", "national_id", "phone", "email")).
		Order("id ASC").
		Find(&customers).Error
	return customers, err
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&total).Error
	return total, err
}

func (r *customerRepository) CountPolicies(ctx context.Context, id uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Policy{}).
		Where("customer_id = ?", id).
		Count(&total).Error
	return total, err
}

func (r *customerRepository) CountRecords(ctx context.Context, id uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.AccountingRecord{}).
		Where("customer_id = ?", id).
		Count(&total).Error
	return total, err
}
