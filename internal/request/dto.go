package request

import (
	"strings"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/core/common/validation"
)

// CreateRequestDTO is the payload for a new travel request. Any status sent
// by the client is ignored.
type CreateRequestDTO struct {
	ManagerID     *int64 `json:"managerId,omitempty"`
	Purpose       string `json:"purpose"`
	TripType      string `json:"tripType"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
}

func (dto *CreateRequestDTO) Validate() *internal.AppError {
	dto.TripType = strings.TrimSpace(dto.TripType)
	if dto.TripType == "" {
		dto.TripType = TripOneWay
	}

	v := validation.NewValidator()
	v.Field("purpose", dto.Purpose).Required().MaxLength(500)
	v.Field("tripType", dto.TripType).OneOf(TripTypes, "tripType can only be one-way, round-trip")
	v.Field("origin", dto.Origin).Required().MaxLength(100)
	v.Field("destination", dto.Destination).Required().MaxLength(100)
	v.Field("departureDate", dto.DepartureDate).Required().Date()

	returnDate := v.Field("returnDate", dto.ReturnDate)
	if dto.TripType == TripRoundTrip {
		returnDate.Required()
	}
	returnDate.Date().NotBefore("departureDate", dto.DepartureDate)

	if dto.ManagerID != nil {
		v.Field("managerId", *dto.ManagerID).MinInt(1, internal.ErrCodeInvalidValue)
	}
	return v.Validate()
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() *internal.AppError {
	if !IsValidStatus(dto.Status) {
		return InvalidStatusError()
	}
	return nil
}
