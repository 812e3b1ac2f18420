package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/edvin/retailpos/internal/api/response"
	"github.com/edvin/retailpos/internal/ghl"
	"github.com/edvin/retailpos/internal/model"
)

const stateCookie = "ghl_oauth_state"

// OAuthFlow is the GHL authorization flow used by the auth routes.
type OAuthFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*ghl.Token, error)
	Token() (*ghl.Token, error)
	Refresh(ctx context.Context) (*ghl.Token, error)
}

type Auth struct {
	oauth         OAuthFlow
	secureCookies bool
}

// NewAuth returns the auth handler. A nil flow makes every route answer 503.
func NewAuth(oauth OAuthFlow, secureCookies bool) *Auth {
	return &Auth{oauth: oauth, secureCookies: secureCookies}
}

func (h *Auth) configured(w http.ResponseWriter) bool {
	if h.oauth == nil {
		response.WriteError(w, http.StatusServiceUnavailable, "GHL OAuth: "+model.ErrNotConfigured.Error())
		return false
	}
	return true
}

// Start godoc
//
//	@Summary		Start GHL authorization
//	@Description	Redirects to the GHL location chooser with a state cookie.
//	@Tags			Auth
//	@Success		302
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/auth [get]
func (h *Auth) Start(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback godoc
//
//	@Summary		Complete GHL authorization
//	@Description	Checks the state cookie and exchanges the code for tokens.
//	@Tags			Auth
//	@Param			code query string true "Authorization code"
//	@Param			state query string true "State from /auth"
//	@Success		200 {object} map[string]string
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/callback [get]
func (h *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		response.WriteError(w, http.StatusBadRequest, "authorization denied: "+e)
		return
	}
	code := q.Get("code")
	if code == "" {
		response.WriteError(w, http.StatusBadRequest, "missing authorization code")
		return
	}
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") {
		response.WriteError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		response.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "connected",
		"location_id": token.LocationID,
	})
}

type authStatus struct {
	Connected  bool       `json:"connected"`
	Expired    bool       `json:"expired,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LocationID string     `json:"location_id,omitempty"`
}

// Status godoc
//
//	@Summary		GHL connection status
//	@Tags			Auth
//	@Success		200 {object} authStatus
//	@Failure		503 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/auth/status [get]
func (h *Auth) Status(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}

	token, err := h.oauth.Token()
	if errors.Is(err, ghl.ErrNoToken) {
		response.WriteJSON(w, http.StatusOK, authStatus{})
		return
	}
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, tokenStatus(token))
}

// Refresh godoc
//
//	@Summary		Refresh the GHL access token
//	@Tags			Auth
//	@Success		200 {object} authStatus
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		502 {object} response.ErrorResponse
//	@Failure		503 {object} response.ErrorResponse
//	@Router			/auth/refresh [post]
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}

	token, err := h.oauth.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, ghl.ErrNoToken) {
			response.WriteServiceError(w, err)
			return
		}
		response.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	response.WriteJSON(w, http.StatusOK, tokenStatus(token))
}

func tokenStatus(token *ghl.Token) authStatus {
	s := authStatus{
		Connected:  true,
		Expired:    token.Expired(),
		LocationID: token.LocationID,
	}
	if !token.Expiry.IsZero() {
		s.ExpiresAt = &token.Expiry
	}
	return s
}
