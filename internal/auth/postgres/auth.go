package postgres

import (
	"context"
	"errors"

	"github.com/barefootnomad/backend/internal/auth"
	"github.com/barefootnomad/backend/internal/company"
	companyDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/company"
	userDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/user"
	"github.com/barefootnomad/backend/internal/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) CreateUser(ctx context.Context, u *userDatamodel.User) error {
	return translateUserErr(r.db.WithContext(ctx).Create(u).Error)
}

func (r *Repository) CreateCompanyWithAdmin(ctx context.Context, c *companyDatamodel.Company, admin *userDatamodel.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return company.ErrDuplicated
			}
			return err
		}

		admin.CompanyID = &c.ID
		if err := tx.Create(admin).Error; err != nil {
			return translateUserErr(err)
		}

		if err := tx.Model(c).Update("admin_id", admin.ID).Error; err != nil {
			return err
		}
		c.AdminID = &admin.ID
		return nil
	})
}

// translateUserErr maps a unique violation on users to user.ErrDuplicated.
// Requires gorm.Config{TranslateError: true}.
func translateUserErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return user.ErrDuplicated
	}
	return err
}
