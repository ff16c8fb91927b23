package models

// Location is a device position fix. Accuracy is in metres.
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}
