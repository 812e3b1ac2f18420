package ghl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/edvin/retailpos/internal/metrics"
)

const (
	DefaultAuthURL  = "https://marketplace.gohighlevel.com/oauth/chooselocation"
	DefaultTokenURL = "https://services.leadconnectorhq.com/oauth/token"
)

var DefaultScopes = []string{
	"products.readonly",
	"products.write",
	"products/prices.readonly",
	"products/prices.write",
	"locations.readonly",
}

var (
	ErrUnauthorized = errors.New("ghl: unauthorized")
	ErrNoToken      = errors.New("ghl: no stored token, connect via /auth")
)

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	Scopes       []string
}

// OAuth runs the GHL authorization code flow and keeps the stored token fresh.
type OAuth struct {
	config *oauth2.Config
	store  TokenStore
	logger zerolog.Logger

	// refreshMu serializes refreshes; GHL rotates the refresh token on every use.
	refreshMu sync.Mutex
}

func NewOAuth(cfg OAuthConfig, store TokenStore, logger zerolog.Logger) *OAuth {
	authURL, tokenURL, scopes := cfg.AuthURL, cfg.TokenURL, cfg.Scopes
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	return &OAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:  store,
		logger: logger.With().Str("component", "ghl-oauth").Logger(),
	}
}

// AuthCodeURL returns the location chooser URL for the given state.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token and persists it.
func (o *OAuth) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := o.config.Exchange(ctx, code, oauth2.SetAuthURLParam("user_type", "Location"))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	token := fromOAuth2(tok, nil)
	if err := o.store.Save(token); err != nil {
		return nil, err
	}
	o.logger.Info().Str("location_id", token.LocationID).Time("expiry", token.Expiry).Msg("ghl connected")
	return token, nil
}

// Token returns the stored token.
func (o *OAuth) Token() (*Token, error) {
	return o.store.Load()
}

// Refresh forces a refresh-token grant and persists the result.
func (o *OAuth) Refresh(ctx context.Context) (*Token, error) {
	o.refreshMu.Lock()
	defer o.refreshMu.Unlock()
	return o.refreshLocked(ctx)
}

// refreshIfStale refreshes unless another caller already replaced the access
// token that was rejected.
func (o *OAuth) refreshIfStale(ctx context.Context, rejected string) (*Token, error) {
	o.refreshMu.Lock()
	defer o.refreshMu.Unlock()

	current, err := o.store.Load()
	if err == nil && current.AccessToken != rejected && !current.Expired() {
		return current, nil
	}
	return o.refreshLocked(ctx)
}

func (o *OAuth) refreshLocked(ctx context.Context) (*Token, error) {
	current, err := o.store.Load()
	if err != nil {
		return nil, err
	}
	if current.RefreshToken == "" {
		return nil, ErrNoToken
	}

	tok, err := o.config.TokenSource(ctx, &oauth2.Token{RefreshToken: current.RefreshToken}).Token()
	if err != nil {
		metrics.GHLTokenRefreshes.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	metrics.GHLTokenRefreshes.WithLabelValues("ok").Inc()

	token := fromOAuth2(tok, current)
	if err := o.store.Save(token); err != nil {
		return nil, err
	}
	o.logger.Info().Time("expiry", token.Expiry).Msg("ghl token refreshed")
	return token, nil
}

// fromOAuth2 converts a token response, keeping fields from prev that the
// response omits.
func fromOAuth2(tok *oauth2.Token, prev *Token) *Token {
	token := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		LocationID:   extraString(tok, "locationId"),
		CompanyID:    extraString(tok, "companyId"),
		UserType:     extraString(tok, "userType"),
	}
	if token.Expiry.IsZero() && tok.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	if prev != nil {
		if token.RefreshToken == "" {
			token.RefreshToken = prev.RefreshToken
		}
		if token.LocationID == "" {
			token.LocationID = prev.LocationID
		}
		if token.CompanyID == "" {
			token.CompanyID = prev.CompanyID
		}
		if token.UserType == "" {
			token.UserType = prev.UserType
		}
	}
	return token
}

func extraString(tok *oauth2.Token, key string) string {
	if v, ok := tok.Extra(key).(string); ok {
		return v
	}
	return ""
}
