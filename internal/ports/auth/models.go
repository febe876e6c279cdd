package auth

// Claims representa la información extraída del token del Directory.
type Claims struct {
	UserID string
	Email  string
}

// Session es lo que devuelve el Directory al autenticar credenciales.
type Session struct {
	Token       string
	PrincipalID string
	Email       string
}
