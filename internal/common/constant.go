// Package common holds constants shared by the PatinaPRO client packages.
package common

// Session keys. The values match the ones the backend-facing app has always
// stored, so an existing local database keeps working.
const (
	CurrentUserKey = "usuarioActual"
	LastLoginKey   = "ultimoIngreso"
)

// RequestIDHeaderName is the header carrying the per-call correlation id.
const RequestIDHeaderName = "X-Request-ID"

// DefaultUsername is reported when nobody is logged in.
const DefaultUsername = "guest"
