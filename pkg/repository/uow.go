package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the transaction boundary and the repositories bound to it.
//
// Do runs fn inside one database transaction. Repositories obtained from the
// UnitOfWork passed to fn share that transaction; returning an error from fn
// rolls everything back.
//
//	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
//		repo, err := uow.AccountRepository()
//		...
//	})
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction.
	//   repoAny, err := uow.GetRepository(reflect.TypeOf((*AccountRepository)(nil)).Elem())
	GetRepository(repoType reflect.Type) (any, error)

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	CustomerRepository() (CustomerRepository, error)
}
