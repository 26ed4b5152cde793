package internal_test

import (
	"os"
	"testing"
	"time"

	"github.com/barefootnomad/backend/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

var _ = Describe("Config", func() {
	valid := func() *internal.Config {
		cfg := &internal.Config{
			Database: internal.DatabaseConfig{Source: "postgres://localhost/barefoot"},
			Security: internal.SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
		}
		cfg.ApplyDefaults()
		return cfg
	}

	It("should fill defaults", func() {
		cfg := valid()

		Expect(cfg.Environment).To(Equal("development"))
		Expect(cfg.Server.Port).To(Equal(3000))
		Expect(cfg.Security.TokenDuration).To(Equal(24 * time.Hour))
		Expect(cfg.Security.CookieName).To(Equal("token"))
		Expect(cfg.Observability.Metrics.Path).To(Equal("/metrics"))
		Expect(cfg.IsProduction()).To(BeFalse())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject a short JWT secret", func() {
		cfg := valid()
		cfg.Security.JWTSecret = "short"

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("jwt secret must be at least 32 characters")))
	})

	It("should require a database source", func() {
		cfg := valid()
		cfg.Database.Source = ""

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("source is required")))
	})

	It("should require brokers when kafka is on", func() {
		cfg := valid()
		cfg.Events.Kafka.Enabled = true

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("kafka brokers are required")))
	})

	It("should split allowed origins", func() {
		server := internal.ServerConfig{AllowedOrigins: "http://a.test, http://b.test ,"}
		Expect(server.Origins()).To(Equal([]string{"http://a.test", "http://b.test"}))

		Expect((&internal.ServerConfig{}).Origins()).To(Equal([]string{"*"}))
	})

	Describe("LoadConfigFromEnv", func() {
		var saved map[string]string

		set := func(key, value string) {
			if _, ok := saved[key]; !ok {
				saved[key] = os.Getenv(key)
			}
			Expect(os.Setenv(key, value)).To(Succeed())
		}

		BeforeEach(func() {
			saved = map[string]string{}
		})

		AfterEach(func() {
			for k, v := range saved {
				if v == "" {
					_ = os.Unsetenv(k)
				} else {
					_ = os.Setenv(k, v)
				}
			}
		})

		It("should read the deployment variables", func() {
			set("NODE_ENV", "production")
			set("PORT", "8080")
			set("DATABASE_URL", "postgres://db/barefoot")
			set("JWT_SECRET", "0123456789abcdef0123456789abcdef")
			set("KAFKA_BROKERS", "k1:9092, k2:9092")

			cfg := internal.LoadConfigFromEnv()

			Expect(cfg.IsProduction()).To(BeTrue())
			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.Database.GetDSN()).To(Equal("postgres://db/barefoot"))
			Expect(cfg.Events.Kafka.Brokers).To(Equal([]string{"k1:9092", "k2:9092"}))
			Expect(cfg.Validate()).To(Succeed())
		})
	})
})

var _ = Describe("AppError", func() {
	It("should match sentinels by type and code", func() {
		wrapped := internal.ErrInvalidToken.WithCause(os.ErrDeadlineExceeded)

		Expect(wrapped).To(MatchError(internal.ErrInvalidToken))
		Expect(wrapped.Unwrap()).To(Equal(os.ErrDeadlineExceeded))
		Expect(internal.ErrInvalidToken.Cause).To(BeNil())
	})

	It("should expose the first field message publicly", func() {
		err := internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)

		Expect(err.Error()).To(Equal("email is required"))
		Expect(err.PublicMessage()).To(Equal("email is required"))
		Expect(err.FirstField().Field).To(Equal("email"))
	})

	It("should report forbidden errors as 401", func() {
		Expect(internal.ErrUnauthorizedUser.StatusCode).To(Equal(401))
	})

	It("should find an AppError through wrapping", func() {
		appErr, ok := internal.IsAppError(internal.NewStorageError("op", os.ErrClosed))
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(500))

		_, ok = internal.IsAppError(os.ErrClosed)
		Expect(ok).To(BeFalse())
	})
})
