package repository

import (
	"context"

	"github.com/amirasaad/bank/infra/repository/model"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository on the given session.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts the account and fills in its id and timestamps.
func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := mapAccountToModel(a)
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	}); err != nil {
		return err
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id int64) (*account.Account, error) {
	var m model.Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Take(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return mapAccountToDomain(&m), nil
}

// GetForUpdate issues SELECT ... FOR UPDATE. Dialects without row locks
// (sqlite) drop the clause and rely on database-level write locking.
func (r *accountRepository) GetForUpdate(ctx context.Context, id int64) (*account.Account, error) {
	var m model.Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Take(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return mapAccountToDomain(&m), nil
}

func (r *accountRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*account.Account, error) {
	var ms []model.Account
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	result := make([]*account.Account, 0, len(ms))
	for i := range ms {
		result = append(result, mapAccountToDomain(&ms[i]))
	}
	return result, nil
}

func (r *accountRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("customer_id = ?", customerID).
		Count(&n).Error
	return n, err
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("balance", balance)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Account{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapAccountToModel(a *account.Account) model.Account {
	return model.Account{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Number:     a.Number,
		Currency:   a.Currency,
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func mapAccountToDomain(m *model.Account) *account.Account {
	return &account.Account{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Number:     m.Number,
		Currency:   m.Currency,
		Balance:    m.Balance,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
