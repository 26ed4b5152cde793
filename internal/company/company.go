package company

import (
	"errors"
	"fmt"
	"time"

	"github.com/barefootnomad/backend/internal"
	companyDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/company"
)

type Company struct {
	ID          int64     `json:"id"`
	Name        string    `json:"companyName"`
	AdminID     *int64    `json:"adminId,omitempty"`
	SignupToken string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	ErrNotFound   = errors.New("company not found")
	ErrDuplicated = errors.New("company already exists")
)

func DuplicateNameError(name string) *internal.AppError {
	return internal.NewConflictError(fmt.Sprintf("Company %q already exists", name), internal.ErrCodeDuplicateCompany)
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:          c.ID,
		Name:        c.Name,
		SignupToken: c.SignupToken,
		AdminID:     c.AdminID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
