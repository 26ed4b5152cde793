package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/auth"
	"github.com/barefootnomad/backend/internal/transport"
	"github.com/barefootnomad/backend/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/oauth2"
)

type MockAuthService struct {
	tokens       map[string]internal.Identity
	lastProfile  *auth.ProviderProfile
	loginFailure error
}

func (m *MockAuthService) SignupCompany(ctx context.Context, dto auth.CompanySignupDTO) (*auth.CompanySignupResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *MockAuthService) SignupUser(ctx context.Context, dto auth.UserSignupDTO) (*auth.SignedInUser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *MockAuthService) Signup(ctx context.Context, dto auth.SignupDTO) (*auth.SignedInUser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *MockAuthService) SignupSupplier(ctx context.Context, dto auth.SignupDTO) (*auth.SignedInUser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, dto auth.LoginDTO) (*auth.SignedInUser, error) {
	if m.loginFailure != nil {
		return nil, m.loginFailure
	}
	return &auth.SignedInUser{Profile: &user.Profile{ID: 1, Email: dto.Email}, Token: "login-token"}, nil
}

func (m *MockAuthService) LoginWithProvider(ctx context.Context, profile *auth.ProviderProfile) (*auth.SignedInUser, error) {
	m.lastProfile = profile
	return &auth.SignedInUser{Profile: &user.Profile{ID: 7, Email: profile.Email, Provider: profile.Provider}, Token: "oauth-token"}, nil
}

func (m *MockAuthService) VerifyToken(token string) (internal.Identity, error) {
	identity, ok := m.tokens[token]
	if !ok {
		return internal.Identity{}, internal.ErrInvalidToken
	}
	return identity, nil
}

type FakeProvider struct {
	failExchange bool
}

func (p *FakeProvider) Name() string { return "google" }

func (p *FakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (p *FakeProvider) Exchange(ctx context.Context, code string) (*auth.ProviderProfile, error) {
	if p.failExchange {
		return nil, fmt.Errorf("exchange refused")
	}
	return &auth.ProviderProfile{Provider: "google", ProviderID: code, Email: "olive@example.com"}, nil
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

func decode(rec *httptest.ResponseRecorder) envelope {
	var body envelope
	Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
	return body
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var _ = Describe("Auth Handler", func() {
	var (
		service  *MockAuthService
		provider *FakeProvider
		handler  *auth.Handler
		router   *chi.Mux
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = &MockAuthService{tokens: map[string]internal.Identity{
			"good": {UserID: 5, RoleID: 3},
		}}
		provider = &FakeProvider{}
		handler = auth.NewHandler(&transport.BaseHandler{Logger: slogger}, service,
			map[string]auth.Provider{"google": provider},
			auth.CookieConfig{Name: "token"})

		router = chi.NewRouter()
		router.Post("/api/auth/login", handler.Login)
		router.Post("/api/auth/logout", handler.Logout)
		router.Get("/api/auth/{provider}", handler.OAuthRedirect)
		router.Get("/api/auth/{provider}/callback", handler.OAuthCallback)
		router.With(handler.Authenticate).Get("/api/me", func(w http.ResponseWriter, r *http.Request) {
			identity, _ := internal.IdentityFromContext(r.Context())
			handler.WriteSuccess(w, http.StatusOK, map[string]int64{"id": identity.UserID})
		})
	})

	Describe("Login", func() {
		It("should set the identity cookie and return the token", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.co","password":"password123"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body.Status).To(Equal("success"))
			Expect(string(body.Data)).To(ContainSubstring(`"token":"login-token"`))

			cookie := cookieNamed(rec, "token")
			Expect(cookie).NotTo(BeNil())
			Expect(cookie.Value).To(Equal("login-token"))
			Expect(cookie.HttpOnly).To(BeTrue())
		})

		It("should answer bad credentials with 401", func() {
			service.loginFailure = internal.ErrInvalidCredentials
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.co","password":"nope"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			body := decode(rec)
			Expect(body.Status).To(Equal("fail"))
			Expect(body.Error.Message).To(Equal("Invalid email or password"))
		})

		It("should reject malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Logout", func() {
		It("should expire the identity cookie", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			cookie := cookieNamed(rec, "token")
			Expect(cookie).NotTo(BeNil())
			Expect(cookie.MaxAge).To(BeNumerically("<", 0))
		})
	})

	Describe("Authenticate", func() {
		It("should refuse requests without a token", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(decode(rec).Error.Message).To(Equal("Access denied, no token provided"))
		})

		It("should refuse an invalid token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.Header.Set("Authorization", "Bearer bad")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(decode(rec).Error.Message).To(Equal("Invalid or expired token"))
		})

		It("should accept a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.Header.Set("Authorization", "Bearer good")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(string(decode(rec).Data)).To(MatchJSON(`{"id":5}`))
		})

		It("should prefer the cookie over the header", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			req.AddCookie(&http.Cookie{Name: "token", Value: "good"})
			req.Header.Set("Authorization", "Bearer bad")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("OAuth", func() {
		It("should redirect to the provider with a state cookie", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))

			Expect(rec.Code).To(Equal(http.StatusTemporaryRedirect))
			state := cookieNamed(rec, "oauth_state")
			Expect(state).NotTo(BeNil())
			Expect(rec.Header().Get("Location")).To(ContainSubstring("state=" + url.QueryEscape(state.Value)))
		})

		It("should 404 an unknown provider", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/myspace", nil))

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should sign the user in when the state matches", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=abc&code=c-1", nil)
			req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "abc"})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastProfile).NotTo(BeNil())
			Expect(service.lastProfile.ProviderID).To(Equal("c-1"))
			Expect(cookieNamed(rec, "token").Value).To(Equal("oauth-token"))
		})

		It("should reject a mismatched state", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=abc&code=c-1", nil)
			req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "xyz"})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(service.lastProfile).To(BeNil())
		})

		It("should answer a failed exchange with 502", func() {
			provider.failExchange = true
			req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=abc&code=c-1", nil)
			req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "abc"})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadGateway))
			Expect(decode(rec).Error.Message).To(Equal("Could not authenticate with google"))
		})
	})
})

var _ = Describe("OAuth2Provider", func() {
	var server *httptest.Server

	BeforeEach(func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"bearer","expires_in":3600}`))
		})
		mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer at-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sub":"g-9","email":"gina@example.com","name":"Gina Google"}`))
		})
		server = httptest.NewServer(mux)
	})

	AfterEach(func() {
		server.Close()
	})

	It("should exchange the code and read the profile", func() {
		p := auth.NewGoogleProvider(internal.OAuthProviderConfig{ClientID: "id", ClientSecret: "secret", CallbackURL: "http://localhost/cb"})
		p.Config.Endpoint = oauth2.Endpoint{AuthURL: server.URL + "/auth", TokenURL: server.URL + "/token"}
		p.ProfileURL = server.URL + "/me"

		profile, err := p.Exchange(context.Background(), "code-1")

		Expect(err).NotTo(HaveOccurred())
		Expect(profile.Provider).To(Equal("google"))
		Expect(profile.ProviderID).To(Equal("g-9"))
		Expect(profile.Email).To(Equal("gina@example.com"))
		Expect(profile.FirstName).To(Equal("Gina"))
		Expect(profile.LastName).To(Equal("Google"))
	})

	It("should fail when the profile endpoint refuses", func() {
		p := auth.NewFacebookProvider(internal.OAuthProviderConfig{ClientID: "id", ClientSecret: "secret"})
		p.Config.Endpoint = oauth2.Endpoint{TokenURL: server.URL + "/token"}
		p.ProfileURL = server.URL + "/missing"

		_, err := p.Exchange(context.Background(), "code-1")

		Expect(err).To(MatchError(ContainSubstring("profile endpoint returned 404")))
	})

	It("should only build enabled providers", func() {
		providers := auth.NewProviders(internal.OAuthConfig{
			Google: internal.OAuthProviderConfig{ClientID: "id", ClientSecret: "secret"},
		})

		Expect(providers).To(HaveKey("google"))
		Expect(providers).NotTo(HaveKey("facebook"))
	})
})
