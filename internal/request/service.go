package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/company"
	"github.com/barefootnomad/backend/internal/core/common/validation"
	requestDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/request"
	"github.com/barefootnomad/backend/internal/core/events"
	"github.com/barefootnomad/backend/internal/role"
	"github.com/barefootnomad/backend/internal/user"
)

type RepositoryAPI interface {
	Create(ctx context.Context, r *requestDatamodel.Request) error
	GetByID(ctx context.Context, id int64) (*requestDatamodel.Request, error)
	// ListByRequester filters by status unless status is empty.
	ListByRequester(ctx context.Context, requesterID int64, status string) ([]*requestDatamodel.Request, error)
	ListByManager(ctx context.Context, managerID int64) ([]*requestDatamodel.Request, error)
	ListAll(ctx context.Context) ([]*requestDatamodel.Request, error)
	// UpdateStatus changes the status only while it still equals from and
	// reports whether a row was changed.
	UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error)
}

type UserFinder interface {
	GetProfile(ctx context.Context, id int64) (*user.Profile, error)
}

type CompanyFinder interface {
	GetByID(ctx context.Context, id int64) (*company.Company, error)
}

type Service struct {
	repo      RepositoryAPI
	users     UserFinder
	companies CompanyFinder
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, users UserFinder, companies CompanyFinder, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		companies: companies,
		publisher: publisher,
		logger:    logger,
	}
}

var (
	errNoRequests       = internal.NewNotFoundError("You have made no request yet", internal.ErrCodeNoRequests)
	errNoSuchRequest    = internal.NewNotFoundError("No such request", internal.ErrCodeRequestNotFound)
	errUpdateNotFound   = internal.NewNotFoundError("updateRequest: No such request", internal.ErrCodeRequestNotFound)
	errManagerRequired  = internal.NewValidationFieldError("managerId", "managerId is required", internal.ErrCodeManagerRequired)
	errManagerNotFound  = internal.NewValidationFieldError("managerId", "managerId does not match any user", internal.ErrCodeManagerRequired)
	errManagerNotRole   = internal.NewValidationFieldError("managerId", "managerId must reference a manager or admin", internal.ErrCodeManagerRequired)
	errManagerRequester = internal.NewValidationFieldError("managerId", "managerId cannot be the requester", internal.ErrCodeManagerRequired)
)

// Create files a pending request for the authenticated requester.
func (s *Service) Create(ctx context.Context, identity internal.Identity, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	managerID, err := s.resolveManager(ctx, identity.UserID, dto.ManagerID)
	if err != nil {
		return nil, err
	}

	departure, _ := validation.ParseDate(dto.DepartureDate)
	row := &requestDatamodel.Request{
		RequesterID:   identity.UserID,
		ManagerID:     managerID,
		Purpose:       dto.Purpose,
		Status:        StatusPending,
		TripType:      dto.TripType,
		Origin:        dto.Origin,
		Destination:   dto.Destination,
		DepartureDate: departure,
	}
	if dto.ReturnDate != "" {
		ret, _ := validation.ParseDate(dto.ReturnDate)
		row.ReturnDate = &ret
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create request", "error", err, "requester_id", identity.UserID)
		return nil, internal.NewStorageError("createRequest", err)
	}

	s.publish(ctx, events.NewRequestCreatedEvent(row.ID, row.RequesterID, row.ManagerID))
	s.logger.Info("request created", "request_id", row.ID, "requester_id", row.RequesterID, "manager_id", row.ManagerID)

	return FromDataModel(row), nil
}

// resolveManager picks the approver: the explicit managerId when given,
// otherwise the requester's company admin.
func (s *Service) resolveManager(ctx context.Context, requesterID int64, managerID *int64) (int64, error) {
	if managerID != nil {
		if *managerID == requesterID {
			return 0, errManagerRequester
		}
		manager, err := s.users.GetProfile(ctx, *managerID)
		if err != nil {
			if isNotFound(err) {
				return 0, errManagerNotFound
			}
			return 0, err
		}
		if !role.IsApprover(manager.RoleID) {
			return 0, errManagerNotRole
		}
		return manager.ID, nil
	}

	requester, err := s.users.GetProfile(ctx, requesterID)
	if err != nil {
		if isNotFound(err) {
			return 0, internal.ErrInvalidToken
		}
		return 0, err
	}
	if requester.CompanyID == nil {
		return 0, errManagerRequired
	}

	c, err := s.companies.GetByID(ctx, *requester.CompanyID)
	if err != nil {
		if isNotFound(err) {
			return 0, errManagerRequired
		}
		return 0, err
	}
	if c.AdminID == nil || *c.AdminID == requesterID {
		return 0, errManagerRequired
	}
	return *c.AdminID, nil
}

func (s *Service) GetByID(ctx context.Context, identity internal.Identity, id int64) (*Request, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errNoSuchRequest
		}
		return nil, internal.NewStorageError("getRequest", err)
	}

	r := FromDataModel(row)
	if !r.CanBeViewedBy(identity, identity.RoleID == role.Admin) {
		return nil, internal.ErrUnauthorizedUser
	}
	return r, nil
}

// ListForUser returns the requests filed by userID. An empty result is a
// not-found error.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Request, error) {
	rows, err := s.repo.ListByRequester(ctx, userID, "")
	if err != nil {
		s.logger.Error("failed to list requests", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("listRequests", err)
	}
	if len(rows) == 0 {
		return nil, errNoRequests
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) ListForUserByStatus(ctx context.Context, userID int64, status string) ([]*Request, error) {
	if !IsValidStatus(status) {
		return nil, InvalidStatusError()
	}

	rows, err := s.repo.ListByRequester(ctx, userID, status)
	if err != nil {
		s.logger.Error("failed to list requests", "error", err, "user_id", userID, "status", status)
		return nil, internal.NewStorageError("listRequests", err)
	}
	if len(rows) == 0 {
		return nil, internal.NewNotFoundError(fmt.Sprintf("You have no %s request", status), internal.ErrCodeNoRequests)
	}
	return FromDataModelSlice(rows), nil
}

// ListAll is for approvers: admins see every request, managers the ones
// assigned to them.
func (s *Service) ListAll(ctx context.Context, identity internal.Identity) ([]*Request, error) {
	if !role.IsApprover(identity.RoleID) {
		s.logger.Warn("list all requests denied", "user_id", identity.UserID, "role_id", identity.RoleID)
		return nil, internal.ErrUnauthorizedUser
	}

	var (
		rows []*requestDatamodel.Request
		err  error
	)
	if identity.RoleID == role.Admin {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByManager(ctx, identity.UserID)
	}
	if err != nil {
		s.logger.Error("failed to list all requests", "error", err)
		return nil, internal.NewStorageError("listRequests", err)
	}
	if len(rows) == 0 {
		return nil, errNoRequests
	}
	return FromDataModelSlice(rows), nil
}

// UpdateStatus moves a pending request to approved or rejected on behalf of
// its manager or an admin.
func (s *Service) UpdateStatus(ctx context.Context, identity internal.Identity, id int64, dto UpdateStatusDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUpdateNotFound
		}
		return nil, internal.NewStorageError("updateRequest", err)
	}

	current := FromDataModel(row)
	if identity.RoleID != role.Admin && identity.UserID != current.ManagerID {
		s.logger.Warn("update request denied", "request_id", id, "user_id", identity.UserID)
		return nil, internal.ErrUnauthorizedUser
	}

	if err := current.CheckTransition(dto.Status); err != nil {
		return nil, err
	}

	changed, err := s.repo.UpdateStatus(ctx, id, current.Status, dto.Status)
	if err != nil {
		s.logger.Error("failed to update request status", "error", err, "request_id", id)
		return nil, internal.NewStorageError("updateRequest", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errUpdateNotFound
		}
		return nil, internal.NewStorageError("updateRequest", err)
	}

	if !changed {
		// lost a race with another approver
		if err := FromDataModel(updated).CheckTransition(dto.Status); err != nil {
			return nil, err
		}
		return nil, internal.NewConflictError("Request was modified concurrently", internal.ErrCodeInvalidTransition)
	}

	s.publish(ctx, events.NewRequestStatusUpdatedEvent(id, updated.RequesterID, identity.UserID, current.Status, updated.Status))
	s.logger.Info("request status updated", "request_id", id, "status", updated.Status, "actor_id", identity.UserID)

	return FromDataModel(updated), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "error", err, "event_type", event.EventType())
	}
}

func isNotFound(err error) bool {
	appErr, ok := internal.IsAppError(err)
	return ok && appErr.Type == internal.ErrorTypeNotFound
}
