package booking_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/booking"
	bookingDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/booking"
	"github.com/barefootnomad/backend/internal/facility"
	"github.com/barefootnomad/backend/internal/request"
	"github.com/barefootnomad/backend/internal/role"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestBooking(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Booking Suite")
}

type MockBookingRepository struct {
	bookings   []*bookingDatamodel.Booking
	shouldFail bool
}

func (m *MockBookingRepository) CreateIfAvailable(ctx context.Context, b *bookingDatamodel.Booking) error {
	if m.shouldFail {
		return errors.New("database error")
	}
	for _, existing := range m.bookings {
		if existing.RoomID == b.RoomID && booking.Overlaps(existing.CheckIn, existing.CheckOut, b.CheckIn, b.CheckOut) {
			return booking.ErrOverlap
		}
	}
	b.ID = int64(len(m.bookings) + 1)
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]*bookingDatamodel.Booking, error) {
	if m.shouldFail {
		return nil, errors.New("database error")
	}
	var out []*bookingDatamodel.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type MockRequestFinder struct {
	requests map[int64]*request.Request
}

func (m *MockRequestFinder) GetByID(ctx context.Context, identity internal.Identity, id int64) (*request.Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, internal.NewNotFoundError("No such request", internal.ErrCodeRequestNotFound)
	}
	if !r.CanBeViewedBy(identity, identity.RoleID == role.Admin) {
		return nil, internal.ErrUnauthorizedUser
	}
	return r, nil
}

type MockRoomFinder struct {
	rooms map[int64]*facility.Room
	// hidden lists users whose company cannot see the rooms.
	hidden map[int64]bool
}

func (m *MockRoomFinder) GetRoom(ctx context.Context, identity internal.Identity, id int64) (*facility.Room, error) {
	r, ok := m.rooms[id]
	if !ok || m.hidden[identity.UserID] {
		return nil, internal.NewNotFoundError("Room not found", internal.ErrCodeRoomNotFound)
	}
	return r, nil
}

var _ = Describe("Booking Service", func() {
	const (
		travellerID int64 = 3
		managerID   int64 = 2
		strangerID  int64 = 7
	)

	var (
		repo      *MockBookingRepository
		rooms     *MockRoomFinder
		service   *booking.Service
		traveller internal.Identity
		stranger  internal.Identity
	)

	dto := func(requestID int64, checkIn, checkOut string) booking.CreateBookingDTO {
		return booking.CreateBookingDTO{RequestID: requestID, RoomID: 1, CheckIn: checkIn, CheckOut: checkOut}
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = &MockBookingRepository{}
		requests := &MockRequestFinder{requests: map[int64]*request.Request{
			1: {ID: 1, RequesterID: travellerID, ManagerID: managerID, Status: request.StatusApproved},
			2: {ID: 2, RequesterID: travellerID, ManagerID: managerID, Status: request.StatusPending},
			3: {ID: 3, RequesterID: strangerID, ManagerID: travellerID, Status: request.StatusApproved},
		}}
		rooms = &MockRoomFinder{rooms: map[int64]*facility.Room{
			1: {ID: 1, FacilityID: 1, Name: "101"},
		}}
		service = booking.NewService(repo, requests, rooms, slogger)

		traveller = internal.Identity{UserID: travellerID, RoleID: role.Requester}
		stranger = internal.Identity{UserID: 99, RoleID: role.Requester}
	})

	Describe("Create", func() {
		It("should book a room for an approved request", func() {
			b, err := service.Create(context.Background(), traveller, dto(1, "2025-06-01", "2025-06-04"))

			Expect(err).NotTo(HaveOccurred())
			Expect(b.ID).To(Equal(int64(1)))
			Expect(b.UserID).To(Equal(travellerID))
			Expect(b.CheckIn).To(Equal("2025-06-01"))
			Expect(b.CheckOut).To(Equal("2025-06-04"))
		})

		It("should reject a check-out that is not after check-in", func() {
			_, err := service.Create(context.Background(), traveller, dto(1, "2025-06-04", "2025-06-04"))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.PublicMessage()).To(Equal("checkOut must be after checkIn"))
		})

		DescribeTable("requests that cannot be booked",
			func(identity func() internal.Identity, requestID int64) {
				_, err := service.Create(context.Background(), identity(), dto(requestID, "2025-06-01", "2025-06-02"))

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(400))
				Expect(appErr.PublicMessage()).To(Equal("Only approved requests can be booked"))
				Expect(repo.bookings).To(BeEmpty())
			},
			Entry("pending request", func() internal.Identity { return traveller }, int64(2)),
			Entry("request the caller only manages", func() internal.Identity { return traveller }, int64(3)),
			Entry("request of another user", func() internal.Identity { return stranger }, int64(1)),
		)

		It("should pass through a missing request", func() {
			_, err := service.Create(context.Background(), traveller, dto(42, "2025-06-01", "2025-06-02"))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})

		It("should not book a room the caller cannot see", func() {
			rooms.hidden = map[int64]bool{travellerID: true}

			_, err := service.Create(context.Background(), traveller, dto(1, "2025-06-01", "2025-06-02"))

			Expect(err).To(MatchError("Room not found"))
			Expect(repo.bookings).To(BeEmpty())
		})

		It("should pass through a missing room", func() {
			d := dto(1, "2025-06-01", "2025-06-02")
			d.RoomID = 9

			_, err := service.Create(context.Background(), traveller, d)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("Room not found"))
		})

		It("should refuse overlapping stays and allow back-to-back ones", func() {
			_, err := service.Create(context.Background(), traveller, dto(1, "2025-06-01", "2025-06-04"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(context.Background(), traveller, dto(1, "2025-06-03", "2025-06-05"))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
			Expect(appErr.Message).To(Equal("Room is already booked for the selected dates"))

			_, err = service.Create(context.Background(), traveller, dto(1, "2025-06-04", "2025-06-06"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should wrap storage failures", func() {
			repo.shouldFail = true

			_, err := service.Create(context.Background(), traveller, dto(1, "2025-06-01", "2025-06-02"))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("ListForUser", func() {
		It("should return an empty list rather than an error", func() {
			list, err := service.ListForUser(context.Background(), travellerID)

			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})
})

var _ = Describe("Overlaps", func() {
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	DescribeTable("half-open stays",
		func(aIn, aOut, bIn, bOut int, overlap bool) {
			Expect(booking.Overlaps(day(aIn), day(aOut), day(bIn), day(bOut))).To(Equal(overlap))
		},
		Entry("identical", 1, 3, 1, 3, true),
		Entry("contained", 1, 10, 3, 4, true),
		Entry("partial", 1, 4, 3, 6, true),
		Entry("back to back", 1, 4, 4, 6, false),
		Entry("disjoint", 1, 2, 5, 6, false),
	)
})
