package booking

import (
	"errors"
	"time"

	"github.com/barefootnomad/backend/internal/core/common/validation"
	bookingDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/booking"
)

type Booking struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	RequestID int64     `json:"requestId"`
	RoomID    int64     `json:"roomId"`
	CheckIn   string    `json:"checkIn"`
	CheckOut  string    `json:"checkOut"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrOverlap is returned by the repository when the room already has a
// booking intersecting the requested stay.
var ErrOverlap = errors.New("booking overlaps an existing booking")

// Overlaps reports whether the half-open stays [aIn, aOut) and [bIn, bOut)
// share a night.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

func FromDataModel(b *bookingDatamodel.Booking) *Booking {
	return &Booking{
		ID:        b.ID,
		UserID:    b.UserID,
		RequestID: b.RequestID,
		RoomID:    b.RoomID,
		CheckIn:   b.CheckIn.Format(validation.DateLayout),
		CheckOut:  b.CheckOut.Format(validation.DateLayout),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func FromDataModelSlice(bookings []*bookingDatamodel.Booking) []*Booking {
	result := make([]*Booking, len(bookings))
	for i, b := range bookings {
		result[i] = FromDataModel(b)
	}
	return result
}
