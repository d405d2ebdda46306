package repository

import (
	"context"

	"github.com/amirasaad/bank/infra/repository/model"
	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a ledger entry repository on the given session.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends the entry and fills in its id.
func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	m := mapTransactionToModel(tx)
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	}); err != nil {
		return err
	}
	tx.ID = m.ID
	tx.CreatedAt = m.CreatedAt
	return nil
}

func (r *transactionRepository) ListRecent(
	ctx context.Context,
	accountID int64,
	limit int,
) ([]*account.Transaction, error) {
	var ms []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	result := make([]*account.Transaction, 0, len(ms))
	for i := range ms {
		result = append(result, mapTransactionToDomain(&ms[i]))
	}
	return result, nil
}

func (r *transactionRepository) DeleteByAccount(ctx context.Context, accountID int64) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("account_id = ?", accountID).
			Delete(&model.Transaction{}).Error
	})
}

func mapTransactionToModel(tx *account.Transaction) model.Transaction {
	return model.Transaction{
		ID:           tx.ID,
		AccountID:    tx.AccountID,
		Type:         string(tx.Type),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
}

func mapTransactionToDomain(m *model.Transaction) *account.Transaction {
	return &account.Transaction{
		ID:           m.ID,
		AccountID:    m.AccountID,
		Type:         account.TransactionType(m.Type),
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		Description:  m.Description,
		CreatedAt:    m.CreatedAt,
	}
}
