package facility

import (
	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/core/common/validation"
	facilityDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/facility"
)

type CreateFacilityDTO struct {
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Description string `json:"description,omitempty"`
}

func (dto CreateFacilityDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(150)
	v.Field("address", dto.Address).MaxLength(255)
	v.Field("city", dto.City).Required().MaxLength(100)
	v.Field("country", dto.Country).Required().MaxLength(100)
	v.Field("description", dto.Description).MaxLength(1000)
	return v.Validate()
}

type UpdateFacilityDTO struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Country     *string `json:"country,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (dto UpdateFacilityDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(150)
	}
	if dto.City != nil {
		v.Field("city", *dto.City).Required().MaxLength(100)
	}
	if dto.Country != nil {
		v.Field("country", *dto.Country).Required().MaxLength(100)
	}
	return v.Validate()
}

func (dto UpdateFacilityDTO) Apply(f *facilityDatamodel.Facility) {
	setString(&f.Name, dto.Name)
	setString(&f.Address, dto.Address)
	setString(&f.City, dto.City)
	setString(&f.Country, dto.Country)
	setString(&f.Description, dto.Description)
}

type CreateRoomDTO struct {
	Name          string `json:"name"`
	RoomType      string `json:"roomType"`
	Capacity      int    `json:"capacity"`
	PricePerNight int64  `json:"pricePerNight"`
}

func (dto CreateRoomDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(100)
	v.Field("roomType", dto.RoomType).Required().MaxLength(50)
	v.Field("capacity", dto.Capacity).MinInt(1, internal.ErrCodeInvalidValue)
	v.Field("pricePerNight", dto.PricePerNight).MinInt(1, internal.ErrCodeInvalidValue)
	return v.Validate()
}

type UpdateRoomDTO struct {
	Name          *string `json:"name,omitempty"`
	RoomType      *string `json:"roomType,omitempty"`
	Capacity      *int    `json:"capacity,omitempty"`
	PricePerNight *int64  `json:"pricePerNight,omitempty"`
}

func (dto UpdateRoomDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(100)
	}
	if dto.RoomType != nil {
		v.Field("roomType", *dto.RoomType).Required().MaxLength(50)
	}
	if dto.Capacity != nil {
		v.Field("capacity", *dto.Capacity).MinInt(1, internal.ErrCodeInvalidValue)
	}
	if dto.PricePerNight != nil {
		v.Field("pricePerNight", *dto.PricePerNight).MinInt(1, internal.ErrCodeInvalidValue)
	}
	return v.Validate()
}

func (dto UpdateRoomDTO) Apply(r *facilityDatamodel.Room) {
	setString(&r.Name, dto.Name)
	setString(&r.RoomType, dto.RoomType)
	if dto.Capacity != nil {
		r.Capacity = *dto.Capacity
	}
	if dto.PricePerNight != nil {
		r.PricePerNight = *dto.PricePerNight
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
