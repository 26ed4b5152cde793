package facility

import (
	"errors"
	"time"

	facilityDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/facility"
)

// Facility is an accommodation place owned by a company, or shared when
// CompanyID is nil.
type Facility struct {
	ID          int64     `json:"id"`
	CompanyID   *int64    `json:"companyId,omitempty"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Room struct {
	ID            int64     `json:"id"`
	FacilityID    int64     `json:"facilityId"`
	Name          string    `json:"name"`
	RoomType      string    `json:"roomType"`
	Capacity      int       `json:"capacity"`
	PricePerNight int64     `json:"pricePerNight"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

var (
	ErrNotFound     = errors.New("facility not found")
	ErrRoomNotFound = errors.New("room not found")
)

// VisibleTo reports whether a member of companyID may see or manage f.
func (f *Facility) VisibleTo(companyID *int64) bool {
	if f.CompanyID == nil {
		return true
	}
	return companyID != nil && *companyID == *f.CompanyID
}

func FromDataModel(f *facilityDatamodel.Facility) *Facility {
	return &Facility{
		ID:          f.ID,
		CompanyID:   f.CompanyID,
		Name:        f.Name,
		Address:     f.Address,
		City:        f.City,
		Country:     f.Country,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func FromDataModelSlice(facilities []*facilityDatamodel.Facility) []*Facility {
	result := make([]*Facility, len(facilities))
	for i, f := range facilities {
		result[i] = FromDataModel(f)
	}
	return result
}

func RoomFromDataModel(r *facilityDatamodel.Room) *Room {
	return &Room{
		ID:            r.ID,
		FacilityID:    r.FacilityID,
		Name:          r.Name,
		RoomType:      r.RoomType,
		Capacity:      r.Capacity,
		PricePerNight: r.PricePerNight,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func RoomsFromDataModel(rooms []*facilityDatamodel.Room) []*Room {
	result := make([]*Room, len(rooms))
	for i, r := range rooms {
		result[i] = RoomFromDataModel(r)
	}
	return result
}
