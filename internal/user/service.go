package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/barefootnomad/backend/internal"
	userDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Update(ctx context.Context, u *userDatamodel.User) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

var errUserNotFound = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)

func (s *Service) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUserNotFound
		}
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, internal.NewStorageError("getProfile", err)
	}
	return FromDataModel(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, internal.NewStorageError("updateProfile", err)
	}

	if dto.Email != nil && *dto.Email != u.Email {
		existing, err := s.repo.GetByEmail(ctx, *dto.Email)
		switch {
		case err == nil && existing.ID != u.ID:
			return nil, DuplicateEmailError(*dto.Email)
		case err != nil && !errors.Is(err, ErrNotFound):
			return nil, internal.NewStorageError("updateProfile", err)
		}
	}

	dto.Apply(u)
	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicated) {
			return nil, DuplicateEmailError(u.Email)
		}
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewStorageError("updateProfile", err)
	}

	s.logger.Info("profile updated", "user_id", id)
	return FromDataModel(u), nil
}
