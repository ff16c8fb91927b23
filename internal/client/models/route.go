package models

import "strings"

// SkillLevel is the level a scheduled route is aimed at.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Iniciante"
	SkillBasic        SkillLevel = "Básico"
	SkillIntermediate SkillLevel = "Intermedio"
	SkillAdvanced     SkillLevel = "Avanzado"
)

// Color is the badge colour shown next to a route.
func (l SkillLevel) Color() string {
	switch strings.ToLower(string(l)) {
	case "iniciante":
		return "success"
	case "básico":
		return "primary"
	case "intermedio":
		return "warning"
	case "avanzado":
		return "danger"
	default:
		return "medium"
	}
}

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Route is a scheduled group practice.
type Route struct {
	ID           int
	Name         string
	Weekday      string
	Time         string
	SkillLevel   SkillLevel
	Neighborhood string
	MeetingPoint string
	Coordinates  Coordinates
}

var defaultRoutes = [...]Route{
	{
		ID:           1,
		Name:         "RUTA 1 - Parque Bicentenario",
		Weekday:      "Martes",
		Time:         "15:00 hrs",
		SkillLevel:   SkillIntermediate,
		Neighborhood: "Vitacura",
		MeetingPoint: "Entrada principal del Parque Bicentenario",
		Coordinates:  Coordinates{Latitude: -33.396, Longitude: -70.579},
	},
	{
		ID:           2,
		Name:         "RUTA 2 - Parque Padre Hurtado",
		Weekday:      "Jueves",
		Time:         "17:00 hrs",
		SkillLevel:   SkillBasic,
		Neighborhood: "La Reina",
		MeetingPoint: "Anfiteatro del parque",
		Coordinates:  Coordinates{Latitude: -33.452, Longitude: -70.536},
	},
	{
		ID:           3,
		Name:         "RUTA 3 - Parque Juan XXIII",
		Weekday:      "Viernes",
		Time:         "19:00 hrs",
		SkillLevel:   SkillAdvanced,
		Neighborhood: "Ñuñoa",
		MeetingPoint: "Canchas de patinaje",
		Coordinates:  Coordinates{Latitude: -33.456, Longitude: -70.587},
	},
	{
		ID:           4,
		Name:         "RUTA 4 - Parque Forestal",
		Weekday:      "Sábados",
		Time:         "10:00 hrs",
		SkillLevel:   SkillBeginner,
		Neighborhood: "Santiago Centro",
		MeetingPoint: "Frente al Museo de Bellas Artes",
		Coordinates:  Coordinates{Latitude: -33.437, Longitude: -70.634},
	},
}

// DefaultRoutes returns a fresh copy of the route catalogue.
func DefaultRoutes() []Route {
	out := make([]Route, len(defaultRoutes))
	copy(out, defaultRoutes[:])
	return out
}

// FindRoute looks a route up by id.
func FindRoute(routes []Route, id int) (Route, bool) {
	for _, r := range routes {
		if r.ID == id {
			return r, true
		}
	}
	return Route{}, false
}
