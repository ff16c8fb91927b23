// Package device declares the host capabilities the client flows depend on:
// user feedback, navigation, confirmation dialogs, camera, geolocation and
// map rendering. A host (terminal, mobile shell) supplies implementations.
package device

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/patinapro/internal/client/models"
)

// View names a screen of the app.
type View string

const (
	ViewLogin    View = "login"
	ViewRegister View = "registro"
	ViewHome     View = "home"
	ViewMenu     View = "menu"
	ViewProfile  View = "informacion-personal"
	ViewRoutes   View = "rutas-programadas"
)

// Params are navigation query parameters, e.g. usuario=<name>.
type Params map[string]string

// ErrPermission is returned by capabilities when the user or the OS refused
// access.
var ErrPermission = errors.New("permission denied")

type Notifier interface {
	Notify(ctx context.Context, title, message string)
}

type Navigator interface {
	Navigate(ctx context.Context, view View, params Params)
}

// Prompt describes a confirmation dialog. With Input set the dialog asks
// for a typed value shown with Placeholder.
type Prompt struct {
	Title       string
	Message     string
	Input       bool
	Placeholder string
	Accept      string
	Cancel      string
}

// Answer is the outcome of a confirmation dialog.
type Answer struct {
	Confirmed bool
	Text      string
}

type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (Answer, error)
}

// UI groups the feedback capabilities every flow needs.
type UI interface {
	Notifier
	Navigator
	Confirmer
}

type Camera interface {
	CapturePhoto(ctx context.Context) ([]byte, error)
}

type Locator interface {
	RequestPermission(ctx context.Context) (granted bool, err error)
	CurrentLocation(ctx context.Context) (models.Location, error)
}

type MapRenderer interface {
	Render(ctx context.Context, center models.Coordinates, zoom int, routes []models.Route) error
	Focus(ctx context.Context, center models.Coordinates, zoom int) error
	MarkUser(ctx context.Context, at models.Coordinates) error
}

// Combine assembles a UI from its three parts.
func Combine(n Notifier, nav Navigator, c Confirmer) UI {
	return composite{Notifier: n, Navigator: nav, Confirmer: c}
}

type composite struct {
	Notifier
	Navigator
	Confirmer
}
