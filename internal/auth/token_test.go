package auth_test

import (
	"time"

	"github.com/barefootnomad/backend/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JWTTokenGenerator", func() {
	const secret = "token-test-secret"

	var generator *auth.JWTTokenGenerator

	sign := func(method jwt.SigningMethod, claims *auth.Claims, key []byte) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		Expect(err).NotTo(HaveOccurred())
		return token
	}

	claimsFor := func(userID int64, expires time.Time) *auth.Claims {
		return &auth.Claims{
			UserID: userID,
			RoleID: 3,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expires),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
	}

	BeforeEach(func() {
		generator = auth.NewJWTTokenGenerator(secret, time.Hour)
	})

	It("should verify the tokens it issues", func() {
		token, err := generator.Issue(42, 2)
		Expect(err).NotTo(HaveOccurred())

		claims, err := generator.Verify(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(42)))
		Expect(claims.RoleID).To(Equal(int64(2)))
		Expect(claims.Subject).To(Equal("42"))
		Expect(claims.ExpiresAt.Time).To(BeTemporally("~", time.Now().Add(time.Hour), 5*time.Second))
	})

	It("should default the lifetime to a day", func() {
		Expect(auth.NewJWTTokenGenerator(secret, 0).TTL).To(Equal(24 * time.Hour))
	})

	It("should report expired tokens", func() {
		token := sign(jwt.SigningMethodHS256, claimsFor(42, time.Now().Add(-time.Minute)), []byte(secret))

		_, err := generator.Verify(token)
		Expect(err).To(MatchError(auth.ErrTokenExpired))
	})

	It("should reject tokens signed with another key", func() {
		token := sign(jwt.SigningMethodHS256, claimsFor(42, time.Now().Add(time.Hour)), []byte("other-secret"))

		_, err := generator.Verify(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("should reject tokens using another algorithm", func() {
		token := sign(jwt.SigningMethodHS512, claimsFor(42, time.Now().Add(time.Hour)), []byte(secret))

		_, err := generator.Verify(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("should reject tokens without a user id", func() {
		token := sign(jwt.SigningMethodHS256, claimsFor(0, time.Now().Add(time.Hour)), []byte(secret))

		_, err := generator.Verify(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})
})
