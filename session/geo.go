// ABOUTME: Geolocation port for activity and survey records
// ABOUTME: Provides env-configured static and null implementations

package session

import (
	"fmt"
	"os"
	"strconv"

	"github.com/grupoethernos/campo/models"
)

// Geolocator supplies the device position. Implementations may fail;
// callers degrade to the zero LatLng and keep going.
type Geolocator interface {
	Locate() (models.LatLng, error)
}

// StaticGeolocator returns a fixed position from the CAMPO_LAT and
// CAMPO_LNG environment variables. Field tablets set these from their
// GPS bridge; workstations usually leave them unset.
type StaticGeolocator struct{}

func (StaticGeolocator) Locate() (models.LatLng, error) {
	latStr, lngStr := os.Getenv("CAMPO_LAT"), os.Getenv("CAMPO_LNG")
	if latStr == "" || lngStr == "" {
		return models.LatLng{}, fmt.Errorf("no position configured")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("invalid CAMPO_LAT: %w", err)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return models.LatLng{}, fmt.Errorf("invalid CAMPO_LNG: %w", err)
	}
	return models.LatLng{Lat: lat, Lng: lng}, nil
}

// NullGeolocator always reports "location unavailable".
type NullGeolocator struct{}

func (NullGeolocator) Locate() (models.LatLng, error) {
	return models.LatLng{}, fmt.Errorf("geolocation unavailable")
}
