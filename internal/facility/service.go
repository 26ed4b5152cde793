package facility

import (
	"context"
	"errors"
	"log/slog"

	"github.com/barefootnomad/backend/internal"
	facilityDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/facility"
	"github.com/barefootnomad/backend/internal/user"
)

type RepositoryAPI interface {
	Create(ctx context.Context, f *facilityDatamodel.Facility) error
	GetByID(ctx context.Context, id int64) (*facilityDatamodel.Facility, error)
	// ListVisible returns shared facilities plus those owned by companyID.
	ListVisible(ctx context.Context, companyID *int64) ([]*facilityDatamodel.Facility, error)
	Update(ctx context.Context, f *facilityDatamodel.Facility) error

	CreateRoom(ctx context.Context, r *facilityDatamodel.Room) error
	GetRoom(ctx context.Context, id int64) (*facilityDatamodel.Room, error)
	ListRooms(ctx context.Context, facilityID int64) ([]*facilityDatamodel.Room, error)
	UpdateRoom(ctx context.Context, r *facilityDatamodel.Room) error
}

type UserFinder interface {
	GetProfile(ctx context.Context, id int64) (*user.Profile, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserFinder
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, users UserFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

var (
	errFacilityNotFound = internal.NewNotFoundError("Facility not found", internal.ErrCodeFacilityNotFound)
	errRoomNotFound     = internal.NewNotFoundError("Room not found", internal.ErrCodeRoomNotFound)
)

// Create stores a facility owned by the caller's company.
func (s *Service) Create(ctx context.Context, identity internal.Identity, dto CreateFacilityDTO) (*Facility, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	companyID, err := s.companyOf(ctx, identity)
	if err != nil {
		return nil, err
	}

	f := &facilityDatamodel.Facility{
		CompanyID:   companyID,
		Name:        dto.Name,
		Address:     dto.Address,
		City:        dto.City,
		Country:     dto.Country,
		Description: dto.Description,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		s.logger.Error("failed to create facility", "error", err)
		return nil, internal.NewStorageError("createFacility", err)
	}

	s.logger.Info("facility created", "facility_id", f.ID, "user_id", identity.UserID)
	return FromDataModel(f), nil
}

func (s *Service) GetByID(ctx context.Context, identity internal.Identity, id int64) (*Facility, error) {
	f, err := s.visibleFacility(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(f), nil
}

func (s *Service) List(ctx context.Context, identity internal.Identity) ([]*Facility, error) {
	companyID, err := s.companyOf(ctx, identity)
	if err != nil {
		return nil, err
	}

	facilities, err := s.repo.ListVisible(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to list facilities", "error", err)
		return nil, internal.NewStorageError("listFacilities", err)
	}
	return FromDataModelSlice(facilities), nil
}

func (s *Service) Update(ctx context.Context, identity internal.Identity, id int64, dto UpdateFacilityDTO) (*Facility, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	f, err := s.visibleFacility(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	dto.Apply(f)
	if err := s.repo.Update(ctx, f); err != nil {
		s.logger.Error("failed to update facility", "error", err, "facility_id", id)
		return nil, internal.NewStorageError("updateFacility", err)
	}
	return FromDataModel(f), nil
}

func (s *Service) CreateRoom(ctx context.Context, identity internal.Identity, facilityID int64, dto CreateRoomDTO) (*Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.visibleFacility(ctx, identity, facilityID); err != nil {
		return nil, err
	}

	room := &facilityDatamodel.Room{
		FacilityID:    facilityID,
		Name:          dto.Name,
		RoomType:      dto.RoomType,
		Capacity:      dto.Capacity,
		PricePerNight: dto.PricePerNight,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		s.logger.Error("failed to create room", "error", err, "facility_id", facilityID)
		return nil, internal.NewStorageError("createRoom", err)
	}
	return RoomFromDataModel(room), nil
}

func (s *Service) ListRooms(ctx context.Context, identity internal.Identity, facilityID int64) ([]*Room, error) {
	if _, err := s.visibleFacility(ctx, identity, facilityID); err != nil {
		return nil, err
	}

	rooms, err := s.repo.ListRooms(ctx, facilityID)
	if err != nil {
		return nil, internal.NewStorageError("listRooms", err)
	}
	return RoomsFromDataModel(rooms), nil
}

// GetRoom returns a room whose facility the caller can see. Rooms of other
// companies' facilities are reported as missing.
func (s *Service) GetRoom(ctx context.Context, identity internal.Identity, id int64) (*Room, error) {
	room, err := s.visibleRoom(ctx, identity, id, "getRoom")
	if err != nil {
		return nil, err
	}
	return RoomFromDataModel(room), nil
}

func (s *Service) UpdateRoom(ctx context.Context, identity internal.Identity, id int64, dto UpdateRoomDTO) (*Room, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	room, err := s.visibleRoom(ctx, identity, id, "updateRoom")
	if err != nil {
		return nil, err
	}

	dto.Apply(room)
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		s.logger.Error("failed to update room", "error", err, "room_id", id)
		return nil, internal.NewStorageError("updateRoom", err)
	}
	return RoomFromDataModel(room), nil
}

// visibleFacility loads a facility and hides other companies' facilities
// behind the same not-found error.
func (s *Service) visibleFacility(ctx context.Context, identity internal.Identity, id int64) (*facilityDatamodel.Facility, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errFacilityNotFound
		}
		return nil, internal.NewStorageError("getFacility", err)
	}

	companyID, err := s.companyOf(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !FromDataModel(f).VisibleTo(companyID) {
		return nil, errFacilityNotFound
	}
	return f, nil
}

func (s *Service) visibleRoom(ctx context.Context, identity internal.Identity, id int64, op string) (*facilityDatamodel.Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, errRoomNotFound
		}
		return nil, internal.NewStorageError(op, err)
	}
	if _, err := s.visibleFacility(ctx, identity, room.FacilityID); err != nil {
		if errors.Is(err, errFacilityNotFound) {
			return nil, errRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) companyOf(ctx context.Context, identity internal.Identity) (*int64, error) {
	p, err := s.users.GetProfile(ctx, identity.UserID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			return nil, internal.ErrInvalidToken
		}
		return nil, err
	}
	return p.CompanyID, nil
}
