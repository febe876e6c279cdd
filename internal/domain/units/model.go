package units

// Role del principal según la colección users. Unresolved significa que
// el principal autenticó pero no tiene documento de rol; se trata como
// fail-closed (ninguna operación con gate de rol pasa).
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUnit       Role = "unit"
	RoleUnresolved Role = ""
)

// User es el documento de la colección users, llaveado por el id del
// principal del Directory.
type User struct {
	ID          string
	Role        Role
	DisplayName string
	Email       string
}

// UnitEntry es la proyección read-only que consumen las vistas para
// etiquetar unidades.
type UnitEntry struct {
	ID          string
	DisplayName string
	Email       string
}
