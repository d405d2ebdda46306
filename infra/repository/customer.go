package repository

import (
	"context"
	"strings"

	"github.com/amirasaad/bank/infra/repository/model"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/domain/customer"
	"github.com/amirasaad/bank/pkg/repository"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a customer repository on the given session.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	m := mapCustomerToModel(c)
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	}); err != nil {
		return err
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	c.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id int64) (*customer.Customer, error) {
	var m model.Customer
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Take(&m, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return mapCustomerToDomain(&m), nil
}

func (r *customerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	var ms []model.Customer
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	return mapCustomersToDomain(ms), nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"first_name": c.FirstName,
			"last_name":  c.LastName,
			"email":      c.Email,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *customerRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Customer{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *customerRepository) Search(
	ctx context.Context,
	query string,
	page, size int,
) ([]*customer.Customer, error) {
	q := r.db.WithContext(ctx).Model(&model.Customer{})
	if strings.TrimSpace(query) != "" {
		pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
		q = q.Where(
			`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\'`,
			pattern, pattern,
		)
	}
	var ms []model.Customer
	if err := q.Order("id").Offset(page * size).Limit(size).Find(&ms).Error; err != nil {
		return nil, err
	}
	return mapCustomersToDomain(ms), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func mapCustomerToModel(c *customer.Customer) model.Customer {
	return model.Customer{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func mapCustomerToDomain(m *model.Customer) *customer.Customer {
	return &customer.Customer{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func mapCustomersToDomain(ms []model.Customer) []*customer.Customer {
	result := make([]*customer.Customer, 0, len(ms))
	for i := range ms {
		result = append(result, mapCustomerToDomain(&ms[i]))
	}
	return result
}
