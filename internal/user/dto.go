package user

import (
	"strings"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/core/common/validation"
	userDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/user"
)

// UpdateProfileDTO carries a partial profile update. Nil fields are left as is.
type UpdateProfileDTO struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Street      *string `json:"street,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Country     *string `json:"country,omitempty"`
	Birthdate   *string `json:"birthdate,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// Validate normalizes the set fields the way signup does, then checks them
// against the same rules.
func (dto *UpdateProfileDTO) Validate() *internal.AppError {
	dto.normalize()
	v := validation.NewValidator()
	if dto.FirstName != nil {
		v.Field("firstName", *dto.FirstName).Required().MaxLength(100)
	}
	if dto.LastName != nil {
		v.Field("lastName", *dto.LastName).Required().MaxLength(100)
	}
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email()
	}
	if dto.Gender != nil {
		v.Field("gender", *dto.Gender).OneOf(Genders, "")
	}
	if dto.Birthdate != nil {
		v.Field("birthdate", *dto.Birthdate).Date().NotFuture()
	}
	if dto.PhoneNumber != nil {
		v.Field("phoneNumber", *dto.PhoneNumber).MaxLength(20)
	}
	return v.Validate()
}

func (dto *UpdateProfileDTO) normalize() {
	trim := func(v *string) {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
	trim(dto.FirstName)
	trim(dto.LastName)
	trim(dto.PhoneNumber)
	if dto.Email != nil {
		*dto.Email = validation.NormalizeEmail(*dto.Email)
	}
}

// Apply copies the set fields onto u. It assumes Validate passed.
func (dto UpdateProfileDTO) Apply(u *userDatamodel.User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.FirstName, dto.FirstName)
	set(&u.LastName, dto.LastName)
	set(&u.Email, dto.Email)
	set(&u.Gender, dto.Gender)
	set(&u.Street, dto.Street)
	set(&u.City, dto.City)
	set(&u.State, dto.State)
	set(&u.Country, dto.Country)
	set(&u.PhoneNumber, dto.PhoneNumber)
	if dto.Birthdate != nil {
		if *dto.Birthdate == "" {
			u.Birthdate = nil
		} else if b, err := validation.ParseDate(*dto.Birthdate); err == nil {
			u.Birthdate = &b
		}
	}
}
