package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/bank/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do share the transaction session.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():     func(db *gorm.DB) any { return NewAccountRepository(db) },
			reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem(): func(db *gorm.DB) any { return NewTransactionRepository(db) },
			reflect.TypeOf((*repository.CustomerRepository)(nil)).Elem():    func(db *gorm.DB) any { return NewCustomerRepository(db) },
		},
	}
}

// Do runs fn in a database transaction. A non-nil error from fn rolls back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository returns the repository registered for repoType, bound to the
// transaction session when called inside Do and to the plain connection otherwise.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return getTyped[repository.AccountRepository](u)
}

func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return getTyped[repository.TransactionRepository](u)
}

func (u *UoW) CustomerRepository() (repository.CustomerRepository, error) {
	return getTyped[repository.CustomerRepository](u)
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func getTyped[T any](u *UoW) (T, error) {
	var zero T
	repoAny, err := u.GetRepository(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("invalid repository type %T", repoAny)
	}
	return repo, nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
