package request

import (
	"errors"
	"fmt"
	"time"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/core/common/validation"
	requestDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/request"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TripOneWay    = "one-way"
	TripRoundTrip = "round-trip"
)

var (
	Statuses  = []string{StatusPending, StatusApproved, StatusRejected}
	TripTypes = []string{TripOneWay, TripRoundTrip}
)

const InvalidStatusMessage = "Request can only be pending, approved, rejected"

var ErrNotFound = errors.New("request not found")

type Request struct {
	ID            int64     `json:"id"`
	RequesterID   int64     `json:"requesterId"`
	ManagerID     int64     `json:"managerId"`
	Purpose       string    `json:"purpose"`
	Status        string    `json:"status"`
	TripType      string    `json:"tripType"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departureDate"`
	ReturnDate    *string   `json:"returnDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// InvalidStatusError is returned for any status token outside Statuses.
func InvalidStatusError() *internal.AppError {
	return internal.NewValidationFieldError("status", InvalidStatusMessage, internal.ErrCodeInvalidRequestStatus)
}

// CheckTransition enforces pending → approved | rejected. Terminal requests
// never change and nothing moves back to pending.
func (r *Request) CheckTransition(to string) *internal.AppError {
	if !IsValidStatus(to) {
		return InvalidStatusError()
	}
	if r.Status != StatusPending {
		return internal.NewValidationError(fmt.Sprintf("Request has already been %s", r.Status), internal.ErrCodeInvalidTransition)
	}
	if to == StatusPending {
		return internal.NewValidationError("Request cannot be moved back to pending", internal.ErrCodeInvalidTransition)
	}
	return nil
}

// CanBeViewedBy reports whether identity is the requester, the manager or an admin.
func (r *Request) CanBeViewedBy(identity internal.Identity, isAdmin bool) bool {
	return isAdmin || identity.UserID == r.RequesterID || identity.UserID == r.ManagerID
}

func FromDataModel(r *requestDatamodel.Request) *Request {
	out := &Request{
		ID:            r.ID,
		RequesterID:   r.RequesterID,
		ManagerID:     r.ManagerID,
		Purpose:       r.Purpose,
		Status:        r.Status,
		TripType:      r.TripType,
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureDate: r.DepartureDate.Format(validation.DateLayout),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.ReturnDate != nil {
		d := r.ReturnDate.Format(validation.DateLayout)
		out.ReturnDate = &d
	}
	return out
}

func FromDataModelSlice(requests []*requestDatamodel.Request) []*Request {
	result := make([]*Request, len(requests))
	for i, r := range requests {
		result[i] = FromDataModel(r)
	}
	return result
}
