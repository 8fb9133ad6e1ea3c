package directory

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/config"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// IdentityClient authenticates credential pairs against the external identity
// provider. Members sign in with their registered email and their registration
// number as the password.
type IdentityClient struct {
	http   *resty.Client
	apiKey string
}

// Session is a verified identity with its durable token
type Session struct {
	Email        string    `json:"email"`
	UserID       string    `json:"userId"`
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Expired reports whether the session token has passed its expiry
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	Email        string `json:"email"`
	LocalID      string `json:"localId"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type identityError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewIdentityClient creates an identity provider client from the firebase
// configuration
func NewIdentityClient(cfg *config.Config) *IdentityClient {
	http := resty.New().
		SetBaseURL(cfg.Firebase.AuthEndpoint).
		SetTimeout(15 * time.Second)

	return &IdentityClient{
		http:   http,
		apiKey: cfg.Firebase.APIKey,
	}
}

// SignIn verifies a credential pair. A rejected pair comes back as a 401
// AppError carrying the provider's reason; transport failures come back as
// 503.
func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var errBody identityError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(signInRequest{Email: email, Password: password, ReturnSecureToken: true}).
		SetResult(&signInResponse{}).
		SetError(&errBody).
		Post("/accounts:signInWithPassword")
	if err != nil {
		return nil, utils.ServiceUnavailableError("Failed to reach identity provider", err)
	}
	if resp.IsError() {
		reason := errBody.Error.Message
		if reason == "" {
			reason = "Login failed"
		}
		return nil, utils.UnauthorizedError(reason, nil)
	}

	body := resp.Result().(*signInResponse)
	expiresIn := 55 * time.Minute
	if d, perr := time.ParseDuration(body.ExpiresIn + "s"); perr == nil && d > 0 {
		expiresIn = d
	}

	return &Session{
		Email:        body.Email,
		UserID:       body.LocalID,
		IDToken:      body.IDToken,
		RefreshToken: body.RefreshToken,
		ExpiresAt:    time.Now().Add(expiresIn),
	}, nil
}
