package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dmitrijs2005/patinapro/internal/client/device"
	"github.com/dmitrijs2005/patinapro/internal/client/models"
	"github.com/dmitrijs2005/patinapro/internal/geo"
	"github.com/dmitrijs2005/patinapro/internal/logging"
)

// SelectedRouteKey is the ephemeral session key of the selected route id.
const SelectedRouteKey = "rutaSeleccionada"

const (
	OverviewZoom = 12
	FocusZoom    = 15
)

// SantiagoCenter is where the routes map opens.
var SantiagoCenter = models.Coordinates{Latitude: -33.448, Longitude: -70.669}

// LocateResult is what Locate found. Route is nil when no route was
// selected.
type LocateResult struct {
	Location   models.Location
	Route      *models.Route
	DistanceKm float64
	ETA        string
}

// RoutesService drives the scheduled-routes screen.
type RoutesService struct {
	session  SessionState
	ui       device.UI
	locator  device.Locator
	renderer device.MapRenderer
	log      logging.Logger
	routes   []models.Route
}

func NewRoutesService(s SessionState, ui device.UI, locator device.Locator, renderer device.MapRenderer, log logging.Logger) *RoutesService {
	return &RoutesService{
		session:  s,
		ui:       ui,
		locator:  locator,
		renderer: renderer,
		log:      log.With("flow", "routes"),
		routes:   models.DefaultRoutes(),
	}
}

func (r *RoutesService) Routes() []models.Route {
	out := make([]models.Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// ShowMap renders every route on the overview map.
func (r *RoutesService) ShowMap(ctx context.Context) error {
	if err := r.renderer.Render(ctx, SantiagoCenter, OverviewZoom, r.Routes()); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

// Select marks a route as selected and zooms the map onto it.
func (r *RoutesService) Select(ctx context.Context, id int) (models.Route, error) {
	route, ok := models.FindRoute(r.routes, id)
	if !ok {
		return models.Route{}, fmt.Errorf("%w: %d", ErrRouteNotFound, id)
	}

	r.session.Ephemeral().Set(SelectedRouteKey, route.ID, gocache.NoExpiration)
	r.log.Debug(ctx, "route selected", "route", route.ID)

	if err := r.renderer.Focus(ctx, route.Coordinates, FocusZoom); err != nil {
		return route, fmt.Errorf("focus map: %w", err)
	}
	return route, nil
}

func (r *RoutesService) Selected() (models.Route, bool) {
	v, found := r.session.Ephemeral().Get(SelectedRouteKey)
	if !found {
		return models.Route{}, false
	}
	id, ok := v.(int)
	if !ok {
		return models.Route{}, false
	}
	return models.FindRoute(r.routes, id)
}

// Locate reads the device position, marks it on the map and reports the
// distance and skating time to the selected route's meeting point.
func (r *RoutesService) Locate(ctx context.Context) (*LocateResult, error) {
	granted, err := r.locator.RequestPermission(ctx)
	if err != nil && !errors.Is(err, device.ErrPermission) {
		r.log.Warn(ctx, "permission request failed", "error", err)
		r.ui.Notify(ctx, "Error", locationFailureMessage(err))
		return nil, fmt.Errorf("request location permission: %w", err)
	}
	if err != nil || !granted {
		r.ui.Notify(ctx, "Permisos requeridos", "Necesitas permitir el acceso a la ubicación para usar esta función. Ve a Configuración de la app y activa los permisos de ubicación.")
		return nil, ErrPermissionDenied
	}

	loc, err := r.locator.CurrentLocation(ctx)
	if err != nil {
		r.log.Warn(ctx, "location read failed", "error", err)
		r.ui.Notify(ctx, "Error", locationFailureMessage(err))
		return nil, fmt.Errorf("current location: %w", err)
	}

	at := loc.Coordinates()
	if err := r.renderer.MarkUser(ctx, at); err != nil {
		r.log.Warn(ctx, "user marker failed", "error", err)
	}
	if err := r.renderer.Focus(ctx, at, FocusZoom); err != nil {
		r.log.Warn(ctx, "map focus failed", "error", err)
	}

	res := &LocateResult{Location: loc}

	route, ok := r.Selected()
	if !ok {
		r.ui.Notify(ctx, "Ubicación Encontrada", "Tu ubicación se ha marcado en el mapa. Selecciona una ruta para ver la distancia.")
		return res, nil
	}

	res.Route = &route
	res.DistanceKm = geo.HaversineKm(at.Latitude, at.Longitude, route.Coordinates.Latitude, route.Coordinates.Longitude)
	res.ETA = geo.EstimatedTravelTime(res.DistanceKm)

	r.ui.Notify(ctx, "Ubicación Encontrada", fmt.Sprintf(
		"Estás a %s del punto de encuentro\n%s\nTiempo estimado: %s\n%s",
		geo.FormatKm(res.DistanceKm), route.Name, res.ETA, route.MeetingPoint))
	return res, nil
}

func locationFailureMessage(err error) string {
	const prefix = "No se pudo obtener tu ubicación. "

	text := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(text, "timeout"):
		return prefix + "El tiempo de espera se agotó. Asegúrate de tener buena señal GPS."
	case errors.Is(err, device.ErrPermission) || strings.Contains(text, "permission"):
		return prefix + "Los permisos de ubicación no fueron concedidos."
	default:
		return prefix + "Asegúrate de que los permisos de ubicación estén activados y el GPS esté encendido."
	}
}
