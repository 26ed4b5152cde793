package transport_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Suite")
}

type envelope struct {
	Status string               `json:"status"`
	Data   map[string]any       `json:"data"`
	Error  *transport.ErrorBody `json:"error"`
}

func decode(rec *httptest.ResponseRecorder) envelope {
	var body envelope
	Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
	return body
}

var _ = Describe("BaseHandler", func() {
	var h *transport.BaseHandler

	BeforeEach(func() {
		h = transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	})

	It("should wrap data in the success envelope", func() {
		rec := httptest.NewRecorder()
		h.WriteSuccess(rec, http.StatusCreated, map[string]string{"id": "1"})

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
		body := decode(rec)
		Expect(body.Status).To(Equal("success"))
		Expect(body.Data).To(HaveKeyWithValue("id", "1"))
	})

	DescribeTable("HandleServiceError",
		func(err error, status int, message string) {
			rec := httptest.NewRecorder()
			h.HandleServiceError(rec, err)

			Expect(rec.Code).To(Equal(status))
			body := decode(rec)
			Expect(body.Status).To(Equal("fail"))
			Expect(body.Error.Message).To(Equal(message))
		},
		Entry("not found", internal.NewNotFoundError("No such request", internal.ErrCodeRequestNotFound), http.StatusNotFound, "No such request"),
		Entry("conflict", internal.NewConflictError("Room is already booked", internal.ErrCodeBookingConflict), http.StatusConflict, "Room is already booked"),
		Entry("forbidden stays 401", internal.ErrUnauthorizedUser, http.StatusUnauthorized, "You are an unauthorized user"),
		Entry("storage hides the cause", internal.NewStorageError("createBooking", errors.New("pq: deadlock")), http.StatusInternalServerError, "createBooking: a server error prevented your request from being completed"),
		Entry("plain errors become 500", errors.New("boom"), http.StatusInternalServerError, "Internal server error"),
	)

	It("should report the offending field", func() {
		rec := httptest.NewRecorder()
		h.HandleServiceError(rec, internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed))

		body := decode(rec)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(body.Error.Message).To(Equal("email is required"))
		Expect(body.Error.Field).To(Equal("email"))
	})

	It("should fall back to the type status when none is set", func() {
		rec := httptest.NewRecorder()
		h.HandleServiceError(rec, &internal.AppError{Type: internal.ErrorTypeExternal, Message: "provider down"})

		Expect(rec.Code).To(Equal(http.StatusBadGateway))
	})

	It("should expose causes in development", func() {
		h.ExposeErrors = true
		rec := httptest.NewRecorder()
		h.HandleServiceError(rec, internal.NewStorageError("createBooking", errors.New("pq: deadlock")))

		Expect(decode(rec).Error.Detail).To(Equal("pq: deadlock"))
	})

	Describe("DecodeJSON", func() {
		type payload struct {
			Email string `json:"email"`
		}

		It("should decode a body", func() {
			var dst payload
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))

			Expect(h.DecodeJSON(r, &dst)).To(Succeed())
			Expect(dst.Email).To(Equal("a@b.co"))
		})

		It("should accept an empty body", func() {
			var dst payload
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

			Expect(h.DecodeJSON(r, &dst)).To(Succeed())
			Expect(dst.Email).To(BeEmpty())
		})

		It("should reject malformed json", func() {
			var dst payload
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))

			err := h.DecodeJSON(r, &dst)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(appErr.Message).To(Equal("invalid request body"))
		})
	})

	Describe("ParamInt64", func() {
		parse := func(path string) (int64, error) {
			var (
				id  int64
				err error
			)
			r := chi.NewRouter()
			r.Get("/requests/{id}", func(w http.ResponseWriter, req *http.Request) {
				id, err = h.ParamInt64(req, "id")
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
			return id, err
		}

		It("should parse positive ids", func() {
			id, err := parse("/requests/12")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(int64(12)))
		})

		It("should reject zero and text", func() {
			for _, path := range []string{"/requests/0", "/requests/abc"} {
				_, err := parse(path)
				Expect(err).To(MatchError("id must be a positive integer"))
			}
		})
	})

	It("should extract bearer tokens only", func() {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc")
		Expect(h.ExtractTokenFromHeader(r)).To(Equal("abc"))

		r.Header.Set("Authorization", "Basic abc")
		Expect(h.ExtractTokenFromHeader(r)).To(BeEmpty())
	})
})
