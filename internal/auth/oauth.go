package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/barefootnomad/backend/internal"
	userDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/user"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// ProviderProfile is what an identity provider tells us about the user.
type ProviderProfile struct {
	Provider   string
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
}

// Provider is an OAuth identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*ProviderProfile, error)
}

// OAuth2Provider implements Provider with the authorization code flow and a
// JSON profile endpoint.
type OAuth2Provider struct {
	name       string
	Config     *oauth2.Config
	ProfileURL string
	parse      func(map[string]interface{}) *ProviderProfile
}

const providerTimeout = 10 * time.Second

func NewFacebookProvider(cfg internal.OAuthProviderConfig) *OAuth2Provider {
	return &OAuth2Provider{
		name: userDatamodel.ProviderFacebook,
		Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     endpoints.Facebook,
			Scopes:       []string{"email"},
		},
		ProfileURL: "https://graph.facebook.com/me?fields=id,email,first_name,last_name",
		parse: func(m map[string]interface{}) *ProviderProfile {
			return &ProviderProfile{
				ProviderID: str(m["id"]),
				Email:      str(m["email"]),
				FirstName:  str(m["first_name"]),
				LastName:   str(m["last_name"]),
			}
		},
	}
}

func NewGoogleProvider(cfg internal.OAuthProviderConfig) *OAuth2Provider {
	return &OAuth2Provider{
		name: userDatamodel.ProviderGoogle,
		Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		ProfileURL: "https://www.googleapis.com/oauth2/v3/userinfo",
		parse: func(m map[string]interface{}) *ProviderProfile {
			return &ProviderProfile{
				ProviderID: str(m["sub"]),
				Email:      str(m["email"]),
				FirstName:  str(m["given_name"]),
				LastName:   str(m["family_name"]),
			}
		},
	}
}

// NewProviders returns the configured providers keyed by name.
func NewProviders(cfg internal.OAuthConfig) map[string]Provider {
	providers := make(map[string]Provider)
	if cfg.Facebook.Enabled() {
		providers[userDatamodel.ProviderFacebook] = NewFacebookProvider(cfg.Facebook)
	}
	if cfg.Google.Enabled() {
		providers[userDatamodel.ProviderGoogle] = NewGoogleProvider(cfg.Google)
	}
	return providers
}

func (p *OAuth2Provider) Name() string {
	return p.name
}

func (p *OAuth2Provider) AuthCodeURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

func (p *OAuth2Provider) Exchange(ctx context.Context, code string) (*ProviderProfile, error) {
	ctx, cancel := internal.WithTimeout(ctx, providerTimeout)
	defer cancel()

	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: code exchange: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ProfileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch profile: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: profile endpoint returned %d", p.name, resp.StatusCode)
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: decode profile: %w", p.name, err)
	}

	profile := p.parse(raw)
	profile.Provider = p.name
	if profile.FirstName == "" {
		if name := str(raw["name"]); name != "" {
			parts := strings.SplitN(name, " ", 2)
			profile.FirstName = parts[0]
			if len(parts) > 1 {
				profile.LastName = parts[1]
			}
		}
	}
	return profile, nil
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
