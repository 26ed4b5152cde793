package booking

import (
	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/core/common/validation"
)

type CreateBookingDTO struct {
	RequestID int64  `json:"requestId"`
	RoomID    int64  `json:"roomId"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
}

func (dto CreateBookingDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("requestId", dto.RequestID).Required().MinInt(1, internal.ErrCodeInvalidValue)
	v.Field("roomId", dto.RoomID).Required().MinInt(1, internal.ErrCodeInvalidValue)
	v.Field("checkIn", dto.CheckIn).Required().Date()
	v.Field("checkOut", dto.CheckOut).Required().Date().After("checkIn", dto.CheckIn)
	return v.Validate()
}
