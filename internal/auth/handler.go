package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/barefootnomad/backend/internal"
	"github.com/barefootnomad/backend/internal/transport"
	"github.com/barefootnomad/backend/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	SignupCompany(ctx context.Context, dto CompanySignupDTO) (*CompanySignupResult, error)
	SignupUser(ctx context.Context, dto UserSignupDTO) (*SignedInUser, error)
	Signup(ctx context.Context, dto SignupDTO) (*SignedInUser, error)
	SignupSupplier(ctx context.Context, dto SignupDTO) (*SignedInUser, error)
	Login(ctx context.Context, dto LoginDTO) (*SignedInUser, error)
	LoginWithProvider(ctx context.Context, profile *ProviderProfile) (*SignedInUser, error)
	VerifyToken(token string) (internal.Identity, error)
}

// CookieConfig controls the identity and OAuth state cookies.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

const stateCookieName = "oauth_state"

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Providers map[string]Provider
	Cookie    CookieConfig
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI, providers map[string]Provider, cookie CookieConfig) *Handler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	if providers == nil {
		providers = map[string]Provider{}
	}
	return &Handler{
		BaseHandler: base,
		Service:     svc,
		Providers:   providers,
		Cookie:      cookie,
	}
}

// SignupCompany handles POST /api/auth/signup/company
func (h *Handler) SignupCompany(w http.ResponseWriter, r *http.Request) {
	var dto CompanySignupDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.SignupCompany(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setTokenCookie(w, result.Admin.Token)
	h.WriteSuccess(w, http.StatusCreated, result)
}

// SignupUser handles POST /api/auth/signup/user
func (h *Handler) SignupUser(w http.ResponseWriter, r *http.Request) {
	var dto UserSignupDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	signedIn, err := h.Service.SignupUser(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setTokenCookie(w, signedIn.Token)
	h.WriteSuccess(w, http.StatusCreated, signedIn)
}

// Signup handles POST /api/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	signedIn, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setTokenCookie(w, signedIn.Token)
	h.WriteSuccess(w, http.StatusCreated, signedIn)
}

// SignupSupplier handles POST /api/auth/signup/supplier
func (h *Handler) SignupSupplier(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	signedIn, err := h.Service.SignupSupplier(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setTokenCookie(w, signedIn.Token)
	h.WriteSuccess(w, http.StatusCreated, signedIn)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	signedIn, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.setTokenCookie(w, signedIn.Token)
	h.WriteSuccess(w, http.StatusOK, signedIn)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.WriteSuccess(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// OAuthRedirect handles GET /api/auth/{provider}
func (h *Handler) OAuthRedirect(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.Providers[chi.URLParam(r, "provider")]
	if !ok {
		h.HandleServiceError(w, internal.ErrRouteNotFound)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, provider.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallback handles GET /api/auth/{provider}/callback
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.Providers[chi.URLParam(r, "provider")]
	if !ok {
		h.HandleServiceError(w, internal.ErrRouteNotFound)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.HandleServiceError(w, internal.NewUnauthorizedError("Invalid OAuth state", internal.ErrCodeInvalidOAuthState))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/api/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		h.HandleServiceError(w, internal.NewValidationFieldError("code", "code is required", internal.ErrCodeValidationFailed))
		return
	}

	profile, err := provider.Exchange(r.Context(), code)
	if err != nil {
		h.Logger.Error("oauth exchange failed", "provider", provider.Name(), "error", err)
		h.HandleServiceError(w, internal.NewExternalError("Could not authenticate with "+provider.Name(), err))
		return
	}

	signedIn, err := h.Service.LoginWithProvider(r.Context(), profile)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.setTokenCookie(w, signedIn.Token)
	h.WriteSuccess(w, http.StatusOK, signedIn)
}

// Authenticate requires a valid identity token and stores the identity in
// the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.tokenFromRequest(r)
		if token == "" {
			h.HandleServiceError(w, internal.ErrMissingToken)
			return
		}

		identity, err := h.Service.VerifyToken(token)
		if err != nil {
			h.Logger.Debug("token verification failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), identity)
		ctx = logger.With(ctx, "user_id", identity.UserID, "role_id", identity.RoleID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest reads the identity cookie, falling back to a bearer header.
func (h *Handler) tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(h.Cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}
	return h.ExtractTokenFromHeader(r)
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.Cookie.MaxAge > 0 {
		cookie.MaxAge = int(h.Cookie.MaxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}
