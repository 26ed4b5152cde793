package auth

import (
	"strings"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/core/common/validation"
	"github.com/barefootnomad/backend/internal/user"
)

const minPasswordLength = 8

// CompanySignupDTO registers a company together with its admin account.
type CompanySignupDTO struct {
	CompanyName string `json:"companyName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

func (d *CompanySignupDTO) Validate() *internal.AppError {
	d.normalize()
	v := validation.NewValidator()
	v.Field("companyName", d.CompanyName).Required().MaxLength(100)
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	return v.Validate()
}

func (d *CompanySignupDTO) normalize() {
	d.CompanyName = strings.TrimSpace(d.CompanyName)
	d.Email = validation.NormalizeEmail(d.Email)
	normalizeNames(&d.FirstName, &d.LastName)
}

// UserSignupDTO joins an existing company through its signup token.
type UserSignupDTO struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	SignupToken string `json:"signupToken"`
	CompanyName string `json:"companyName,omitempty"`
}

func (d *UserSignupDTO) Validate() *internal.AppError {
	d.Email = validation.NormalizeEmail(d.Email)
	normalizeNames(&d.FirstName, &d.LastName)
	d.SignupToken = strings.TrimSpace(d.SignupToken)
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("signupToken", d.SignupToken).Required()
	return v.Validate()
}

// SignupDTO is the independent signup with optional profile fields.
type SignupDTO struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Gender      string `json:"gender,omitempty"`
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

func (d *SignupDTO) Validate() *internal.AppError {
	d.Email = validation.NormalizeEmail(d.Email)
	normalizeNames(&d.FirstName, &d.LastName)
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	v.Field("gender", d.Gender).OneOf(user.Genders, "")
	v.Field("birthdate", d.Birthdate).Date().NotFuture()
	v.Field("phoneNumber", d.PhoneNumber).MaxLength(20)
	return v.Validate()
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() *internal.AppError {
	d.Email = validation.NormalizeEmail(d.Email)
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func normalizeNames(first, last *string) {
	*first = strings.TrimSpace(*first)
	*last = strings.TrimSpace(*last)
}
