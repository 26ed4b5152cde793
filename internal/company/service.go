package company

import (
	"context"
	"errors"
	"log/slog"

	"github.com/barefootnomad/backend/internal"
	companyDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/company"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*companyDatamodel.Company, error)
	GetByName(ctx context.Context, name string) (*companyDatamodel.Company, error)
	GetBySignupToken(ctx context.Context, token string) (*companyDatamodel.Company, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

var (
	errCompanyNotFound    = internal.NewNotFoundError("Company not found", internal.ErrCodeCompanyNotFound)
	errInvalidSignupToken = internal.NewValidationFieldError("signupToken", "signupToken is invalid", internal.ErrCodeInvalidSignupToken)
)

func (s *Service) GetByID(ctx context.Context, id int64) (*Company, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate("getCompany", err, errCompanyNotFound)
	}
	return FromDataModel(c), nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*Company, error) {
	c, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, s.translate("getCompany", err, errCompanyNotFound)
	}
	return FromDataModel(c), nil
}

// GetBySignupToken resolves the company a signup token admits users to.
// Unknown tokens are a validation failure on the signupToken field.
func (s *Service) GetBySignupToken(ctx context.Context, token string) (*Company, error) {
	c, err := s.repo.GetBySignupToken(ctx, token)
	if err != nil {
		return nil, s.translate("getCompany", err, errInvalidSignupToken)
	}
	return FromDataModel(c), nil
}

func (s *Service) translate(op string, err error, notFound *internal.AppError) error {
	if errors.Is(err, ErrNotFound) {
		return notFound
	}
	s.logger.Error("company lookup failed", "op", op, "error", err)
	return internal.NewStorageError(op, err)
}
