package models

// Rol is the role of an authenticated user. Authentication itself happens
// upstream; the API only receives the resolved identity.
type Rol string

const (
	RolAdmin    Rol = "admin"
	RolVendedor Rol = "vendedor"
	RolDeposito Rol = "deposito"
)

// Actor identifies the user performing an operation, as resolved by the
// upstream auth layer. Nombre is denormalized into activity records.
type Actor struct {
	ID     int64
	Nombre string
	Rol    Rol
}

// EsAdmin reports whether the actor has unrestricted permissions.
func (a Actor) EsAdmin() bool {
	return a.Rol == RolAdmin
}
