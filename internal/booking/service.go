package booking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/core/common/validation"
	bookingDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/booking"
	"github.com/barefootnomad/backend/internal/facility"
	"github.com/barefootnomad/backend/internal/request"
)

type RepositoryAPI interface {
	// CreateIfAvailable stores b unless the room is taken for any of its
	// nights, in which case it returns ErrOverlap.
	CreateIfAvailable(ctx context.Context, b *bookingDatamodel.Booking) error
	ListByUser(ctx context.Context, userID int64) ([]*bookingDatamodel.Booking, error)
}

type RequestFinder interface {
	GetByID(ctx context.Context, identity internal.Identity, id int64) (*request.Request, error)
}

type RoomFinder interface {
	GetRoom(ctx context.Context, identity internal.Identity, id int64) (*facility.Room, error)
}

type Service struct {
	repo     RepositoryAPI
	requests RequestFinder
	rooms    RoomFinder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, requests RequestFinder, rooms RoomFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		requests: requests,
		rooms:    rooms,
		logger:   logger,
	}
}

var (
	errNotApproved = internal.NewValidationFieldError("requestId", "Only approved requests can be booked", internal.ErrCodeRequestNotApproved)
	errRoomTaken   = internal.NewConflictError("Room is already booked for the selected dates", internal.ErrCodeBookingConflict)
)

// Create books a room for an approved request owned by the caller.
func (s *Service) Create(ctx context.Context, identity internal.Identity, dto CreateBookingDTO) (*Booking, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, identity, dto.RequestID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeForbidden {
			return nil, errNotApproved
		}
		return nil, err
	}
	if req.RequesterID != identity.UserID || req.Status != request.StatusApproved {
		return nil, errNotApproved
	}

	if _, err := s.rooms.GetRoom(ctx, identity, dto.RoomID); err != nil {
		return nil, err
	}

	checkIn, _ := validation.ParseDate(dto.CheckIn)
	checkOut, _ := validation.ParseDate(dto.CheckOut)
	b := &bookingDatamodel.Booking{
		UserID:    identity.UserID,
		RequestID: req.ID,
		RoomID:    dto.RoomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
	}

	if err := s.repo.CreateIfAvailable(ctx, b); err != nil {
		if errors.Is(err, ErrOverlap) {
			return nil, errRoomTaken
		}
		s.logger.Error("failed to create booking", "error", err, "room_id", dto.RoomID)
		return nil, internal.NewStorageError("createBooking", err)
	}

	s.logger.Info("room booked", "booking_id", b.ID, "room_id", b.RoomID, "request_id", b.RequestID)
	return FromDataModel(b), nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list bookings", "error", err, "user_id", userID)
		return nil, internal.NewStorageError("listBookings", err)
	}
	return FromDataModelSlice(bookings), nil
}
