package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ambulance-dispatch/internal/platform/httpclient"
	"ambulance-dispatch/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("directory client not configured")
	ErrUnauthorized  = errors.New("directory unauthorized")
	ErrUpstream      = errors.New("directory upstream error")
)

// Config del cliente del Directory. BaseURL y APIKey normalmente vienen
// de env vars (DIRECTORY_BASE_URL / DIRECTORY_API_KEY).
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header de la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: header,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// Login autentica email+password contra el Directory y devuelve la
// sesión (token + id de principal).
func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, ErrNotConfigured
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return auth.Session{}, ErrUnauthorized
	}

	var out struct {
		Token       string `json:"token"`
		PrincipalID string `json:"principal_id"`
		Email       string `json:"email"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/sessions",
		c.headers(), map[string]string{
			"email":    email,
			"password": password,
		}, &out)
	if err != nil {
		return auth.Session{}, c.mapError(err)
	}

	if strings.TrimSpace(out.Token) == "" || strings.TrimSpace(out.PrincipalID) == "" {
		return auth.Session{}, fmt.Errorf("%w: respuesta sin token o principal", ErrUpstream)
	}

	return auth.Session{
		Token:       out.Token,
		PrincipalID: out.PrincipalID,
		Email:       strings.TrimSpace(out.Email),
	}, nil
}

// VerifyToken valida un Bearer token y trae los claims del principal.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	headers := c.headers()
	headers["Authorization"] = "Bearer " + token

	var out struct {
		PrincipalID string `json:"principal_id"`
		Email       string `json:"email"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/sessions/verify",
		headers, map[string]string{"token": token}, &out)
	if err != nil {
		return auth.Claims{}, c.mapError(err)
	}

	out.PrincipalID = strings.TrimSpace(out.PrincipalID)
	if out.PrincipalID == "" {
		return auth.Claims{}, fmt.Errorf("%w: respuesta sin principal_id", ErrUpstream)
	}

	return auth.Claims{
		UserID: out.PrincipalID,
		Email:  strings.TrimSpace(out.Email),
	}, nil
}

// Logout invalida la sesión. Si el upstream falla solo se reporta; no
// hay retry.
func (c *Client) Logout(ctx context.Context, token string) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	headers := c.headers()
	headers["Authorization"] = "Bearer " + token

	err := c.http.DoJSON(ctx, http.MethodDelete, "/v1/sessions", headers, nil, nil)
	if err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{c.apiKeyHeader: c.apiKey}
}

func (c *Client) mapError(err error) error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrUnauthorized
		default:
			return fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
