package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/core/common/validation"
	userDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/user"
)

// Profile is the public view of a user. It never carries the password hash.
type Profile struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	RoleID      int64     `json:"roleId"`
	CompanyID   *int64    `json:"companyId,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Street      string    `json:"street,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Country     string    `json:"country,omitempty"`
	Birthdate   *string   `json:"birthdate,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrDuplicated = errors.New("user email already exists")
)

var Genders = []string{"male", "female", "other"}

// DuplicateEmailError is the conflict returned whenever an email is taken.
func DuplicateEmailError(email string) *internal.AppError {
	return internal.NewConflictError(fmt.Sprintf("User with email: %q already exists", email), internal.ErrCodeDuplicateUser)
}

func FromDataModel(u *userDatamodel.User) *Profile {
	p := &Profile{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		RoleID:      u.RoleID,
		CompanyID:   u.CompanyID,
		Gender:      u.Gender,
		Street:      u.Street,
		City:        u.City,
		State:       u.State,
		Country:     u.Country,
		PhoneNumber: u.PhoneNumber,
		Provider:    u.Provider,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.Birthdate != nil {
		b := u.Birthdate.Format(validation.DateLayout)
		p.Birthdate = &b
	}
	return p
}
