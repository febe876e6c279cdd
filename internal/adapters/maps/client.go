// Package maps es el cliente del servicio externo de direcciones.
package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ambulance-dispatch/internal/domain/routing"
	"ambulance-dispatch/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("maps client not configured")
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// Route pide direcciones origin->destination al upstream. El formato de
// respuesta sigue el contrato clásico de servicios de directions
// (distancia en metros, duración en segundos, polyline codificada).
func (c *Client) Route(ctx context.Context, origin, destination routing.LatLng, mode string) (routing.Route, error) {
	if !c.IsConfigured() {
		return routing.Route{}, ErrNotConfigured
	}
	if mode == "" {
		mode = "driving"
	}

	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%v,%v", origin.Lat, origin.Lng))
	q.Set("destination", fmt.Sprintf("%v,%v", destination.Lat, destination.Lng))
	q.Set("mode", mode)
	q.Set("key", c.apiKey)

	var out struct {
		DistanceMeters  int    `json:"distance_meters"`
		DurationSeconds int    `json:"duration_seconds"`
		Polyline        string `json:"polyline"`
	}

	err := c.http.DoJSON(ctx, http.MethodGet, "/directions?"+q.Encode(), nil, nil, &out)
	if err != nil {
		return routing.Route{}, err
	}

	return routing.Route{
		DistanceMeters:  out.DistanceMeters,
		DurationSeconds: out.DurationSeconds,
		Polyline:        out.Polyline,
	}, nil
}
