package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Directory es el proveedor externo de autenticación. El rol NO vive
// aquí: se resuelve contra la colección users del Ledger.
type Directory interface {
	// Login autentica credenciales. Credenciales malas => error de
	// autenticación (el handler lo baja a 401 inline en el form).
	Login(ctx context.Context, email, password string) (Session, error)

	// Logout invalida el token en el Directory. Best-effort.
	Logout(ctx context.Context, token string) error
}
