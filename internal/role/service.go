package role

import (
	"context"
	"errors"
	"log/slog"

	"github.com/barefootnomad/backend/internal"
	roleDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/role"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*roleDatamodel.Role, error)
	GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]*Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, internal.NewStorageError("listRoles", err)
	}
	return FromDataModelSlice(roles), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Role, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
		}
		return nil, internal.NewStorageError("getRole", err)
	}
	return FromDataModel(r), nil
}
