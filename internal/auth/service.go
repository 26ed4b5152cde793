package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/company"
	"github.com/barefootnomad/backend/internal/core/common/validation"
	companyDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/company"
	userDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/user"
	"github.com/barefootnomad/backend/internal/role"
	"github.com/barefootnomad/backend/internal/user"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	FindUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	CreateUser(ctx context.Context, u *userDatamodel.User) error
	// CreateCompanyWithAdmin stores the company, its admin and the admin link atomically.
	CreateCompanyWithAdmin(ctx context.Context, c *companyDatamodel.Company, admin *userDatamodel.User) error
}

type CompanyFinder interface {
	GetByName(ctx context.Context, name string) (*company.Company, error)
	GetBySignupToken(ctx context.Context, token string) (*company.Company, error)
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	companies      CompanyFinder
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, companies CompanyFinder, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		companies:      companies,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// SignupCompany creates a company and its admin account.
func (s *Service) SignupCompany(ctx context.Context, dto CompanySignupDTO) (*CompanySignupResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.findByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.CompanyID != nil {
			return nil, internal.NewConflictError(
				fmt.Sprintf("Admin with email: %q already exists for a company", dto.Email),
				internal.ErrCodeDuplicateUser)
		}
		return nil, user.DuplicateEmailError(dto.Email)
	}

	if _, err := s.companies.GetByName(ctx, dto.CompanyName); err == nil {
		return nil, company.DuplicateNameError(dto.CompanyName)
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	c := &companyDatamodel.Company{
		Name:        dto.CompanyName,
		SignupToken: uuid.NewString(),
	}
	admin := &userDatamodel.User{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Email:        dto.Email,
		PasswordHash: hash,
		RoleID:       role.Admin,
		Provider:     userDatamodel.ProviderLocal,
	}

	if err := s.repo.CreateCompanyWithAdmin(ctx, c, admin); err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicated):
			return nil, user.DuplicateEmailError(dto.Email)
		case errors.Is(err, company.ErrDuplicated):
			return nil, company.DuplicateNameError(dto.CompanyName)
		}
		s.logger.Error("failed to create company", "error", err, "company", dto.CompanyName)
		return nil, internal.NewStorageError("signupCompany", err)
	}

	signedIn, err := s.signIn(admin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("company registered", "company_id", c.ID, "admin_id", admin.ID)

	return &CompanySignupResult{
		Admin:       signedIn,
		Company:     company.FromDataModel(c),
		SignupToken: c.SignupToken,
	}, nil
}

// SignupUser admits a user to the company owning the signup token.
func (s *Service) SignupUser(ctx context.Context, dto UserSignupDTO) (*SignedInUser, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.companies.GetBySignupToken(ctx, dto.SignupToken)
	if err != nil {
		return nil, err
	}
	if dto.CompanyName != "" && dto.CompanyName != c.Name {
		return nil, internal.NewValidationFieldError("companyName", "companyName does not match the signup token", internal.ErrCodeInvalidSignupToken)
	}

	u := &userDatamodel.User{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		RoleID:    role.Requester,
		CompanyID: &c.ID,
		Provider:  userDatamodel.ProviderLocal,
	}
	return s.register(ctx, u, dto.Password)
}

// Signup registers an independent user with no company.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*SignedInUser, error) {
	return s.signupWithoutCompany(ctx, dto, role.Requester)
}

// SignupSupplier registers an accommodation supplier. Suppliers share the
// independent signup rules and belong to no company.
func (s *Service) SignupSupplier(ctx context.Context, dto SignupDTO) (*SignedInUser, error) {
	return s.signupWithoutCompany(ctx, dto, role.Supplier)
}

func (s *Service) signupWithoutCompany(ctx context.Context, dto SignupDTO, roleID int64) (*SignedInUser, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u := &userDatamodel.User{
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		Email:       dto.Email,
		RoleID:      roleID,
		Gender:      dto.Gender,
		Street:      dto.Street,
		City:        dto.City,
		State:       dto.State,
		Country:     dto.Country,
		PhoneNumber: dto.PhoneNumber,
		Provider:    userDatamodel.ProviderLocal,
	}
	if dto.Birthdate != "" {
		b, _ := validation.ParseDate(dto.Birthdate)
		u.Birthdate = &b
	}
	return s.register(ctx, u, dto.Password)
}

func (s *Service) register(ctx context.Context, u *userDatamodel.User, password string) (*SignedInUser, error) {
	existing, err := s.findByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, user.DuplicateEmailError(u.Email)
	}

	if password != "" {
		hash, err := HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicated) {
			return nil, user.DuplicateEmailError(u.Email)
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewStorageError("signup", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "provider", u.Provider)
	return s.signIn(u)
}

// Login validates credentials and returns a signed token
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*SignedInUser, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.findByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.PasswordHash == "" {
		return nil, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(u.PasswordHash, dto.Password); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	return s.signIn(u)
}

// LoginWithProvider signs in the owner of an OAuth profile, creating a
// requester account on first sight.
func (s *Service) LoginWithProvider(ctx context.Context, profile *ProviderProfile) (*SignedInUser, error) {
	if profile == nil || profile.Email == "" {
		return nil, internal.NewExternalError("OAuth provider did not return an email", nil)
	}
	email := validation.NormalizeEmail(profile.Email)

	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return s.signIn(u)
	}

	u = &userDatamodel.User{
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Email:      email,
		RoleID:     role.Requester,
		Provider:   profile.Provider,
		ProviderID: profile.ProviderID,
	}
	return s.register(ctx, u, "")
}

// VerifyToken decodes a token into the caller identity.
func (s *Service) VerifyToken(token string) (internal.Identity, error) {
	claims, err := s.tokenGenerator.Verify(token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired) {
			return internal.Identity{}, internal.ErrInvalidToken.WithCause(err)
		}
		return internal.Identity{}, internal.NewInternalError("failed to verify token", err)
	}
	return internal.Identity{UserID: claims.UserID, RoleID: claims.RoleID}, nil
}

func (s *Service) signIn(u *userDatamodel.User) (*SignedInUser, error) {
	token, err := s.tokenGenerator.Issue(u.ID, u.RoleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	return &SignedInUser{Profile: user.FromDataModel(u), Token: token}, nil
}

// findByEmail returns nil without error when the email is free.
func (s *Service) findByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	u, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("failed to look up user", "error", err)
		return nil, internal.NewStorageError("findUser", err)
	}
	return u, nil
}

func isNotFound(err error) bool {
	appErr, ok := internal.IsAppError(err)
	return ok && appErr.Type == internal.ErrorTypeNotFound
}
