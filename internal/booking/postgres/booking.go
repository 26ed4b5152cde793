package postgres

import (
	"context"

	"github.com/barefootnomad/backend/internal/booking"
	bookingDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/booking"
	facilityDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/facility"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) booking.RepositoryAPI {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *bookingDatamodel.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// serialize bookings of the same room
		if tx.Dialector.Name() == "postgres" {
			var room facilityDatamodel.Room
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				First(&room, b.RoomID).Error
			if err != nil {
				return err
			}
		}

		var overlapping int64
		err := tx.Model(&bookingDatamodel.Booking{}).
			Where("room_id = ? AND check_in < ? AND check_out > ?", b.RoomID, b.CheckOut, b.CheckIn).
			Count(&overlapping).Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return booking.ErrOverlap
		}

		return tx.Create(b).Error
	})
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]*bookingDatamodel.Booking, error) {
	var bookings []*bookingDatamodel.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
