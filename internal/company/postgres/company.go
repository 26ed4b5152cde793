package postgres

import (
	"context"
	"errors"

	"github.com/barefootnomad/backend/internal/company"
	companyDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/company"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.RepositoryAPI {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*companyDatamodel.Company, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*companyDatamodel.Company, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *CompanyRepository) GetBySignupToken(ctx context.Context, token string) (*companyDatamodel.Company, error) {
	return r.first(ctx, "signup_token = ?", token)
}

func (r *CompanyRepository) first(ctx context.Context, query string, arg interface{}) (*companyDatamodel.Company, error) {
	var c companyDatamodel.Company
	if err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, company.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
