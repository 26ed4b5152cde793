package postgres

import (
	"context"
	"errors"

	roleDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/role"
	"github.com/barefootnomad/backend/internal/role"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]*roleDatamodel.Role, error) {
	var roles []*roleDatamodel.Role
	err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error) {
	var rl roleDatamodel.Role
	if err := r.db.WithContext(ctx).First(&rl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, role.ErrNotFound
		}
		return nil, err
	}
	return &rl, nil
}

// EnsureDefaults upserts the static role rows. Used by tests and local setups
// that skip the SQL migrations.
func EnsureDefaults(ctx context.Context, db *gorm.DB) error {
	for _, rl := range role.Defaults() {
		row := role.ToDataModel(rl)
		if err := db.WithContext(ctx).Where(roleDatamodel.Role{ID: row.ID}).FirstOrCreate(row).Error; err != nil {
			return err
		}
	}
	return nil
}
