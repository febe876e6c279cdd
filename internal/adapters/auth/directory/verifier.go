package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ambulance-dispatch/internal/ports/auth"
)

// Verifier implementa auth.AuthVerifier contra el Directory. Se
// instancia desde main/router cuando DIRECTORY_BASE_URL está definido;
// sin él, el middleware corre en modo dev.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("directory verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("directory claims missing principal id")
	}

	return claims, nil
}
