package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/barefootnomad/backend/internal/booking"
	bookingPostgres "github.com/barefootnomad/backend/internal/booking/postgres"
	bookingDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/booking"
	"github.com/barefootnomad/backend/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestBookingPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Booking Postgres Suite")
}

var _ = Describe("Booking PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo booking.RepositoryAPI
		ctx  context.Context
	)

	stay := func(userID, roomID int64, in, out int) *bookingDatamodel.Booking {
		return &bookingDatamodel.Booking{
			UserID:    userID,
			RequestID: 1,
			RoomID:    roomID,
			CheckIn:   time.Date(2025, 7, in, 0, 0, 0, 0, time.UTC),
			CheckOut:  time.Date(2025, 7, out, 0, 0, 0, 0, time.UTC),
		}
	}

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())

		repo = bookingPostgres.NewBookingRepository(db)
		ctx = context.Background()

		Expect(repo.CreateIfAvailable(ctx, stay(3, 1, 10, 14))).To(Succeed())
	})

	AfterEach(func() {
		testutil.Close(db)
	})

	Describe("CreateIfAvailable", func() {
		It("should reject a stay sharing a night with an existing booking", func() {
			err := repo.CreateIfAvailable(ctx, stay(4, 1, 13, 16))
			Expect(err).To(MatchError(booking.ErrOverlap))

			err = repo.CreateIfAvailable(ctx, stay(4, 1, 8, 11))
			Expect(err).To(MatchError(booking.ErrOverlap))
		})

		It("should accept a stay starting on the previous check-out day", func() {
			b := stay(4, 1, 14, 16)
			Expect(repo.CreateIfAvailable(ctx, b)).To(Succeed())
			Expect(b.ID).To(BeNumerically(">", 0))
		})

		It("should accept the same dates in a different room", func() {
			Expect(repo.CreateIfAvailable(ctx, stay(4, 2, 10, 14))).To(Succeed())
		})
	})

	Describe("ListByUser", func() {
		It("should list a user's bookings by check-in", func() {
			Expect(repo.CreateIfAvailable(ctx, stay(3, 2, 1, 3))).To(Succeed())

			bookings, err := repo.ListByUser(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(bookings).To(HaveLen(2))
			Expect(bookings[0].RoomID).To(Equal(int64(2)))
			Expect(bookings[1].RoomID).To(Equal(int64(1)))
		})

		It("should return nothing for a user without bookings", func() {
			bookings, err := repo.ListByUser(ctx, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(bookings).To(BeEmpty())
		})
	})
})
