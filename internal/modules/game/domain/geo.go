package domain

import (
	"math"
	"sort"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0

	// NearbyRadiusKm is the fixed search radius for nearby games.
	NearbyRadiusKm = 25.0
)

// GameDistance pairs a game with its great-circle distance from the
// reference point.
type GameDistance struct {
	Game       Game    `json:"game"`
	DistanceKm float64 `json:"distanceKm"`
}

// Haversine returns the great-circle distance in kilometers between two
// latitude/longitude pairs given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Pow(math.Sin(dLon/2), 2)

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Nearby filters games to those with an API coordinate within radiusKm of
// the reference point, sorted by ascending distance. Ties keep the input
// order.
func Nearby(games []Game, refLat, refLon, radiusKm float64) []GameDistance {
	nearby := make([]GameDistance, 0, len(games))

	for _, game := range games {
		if !game.HasCoordinates() {
			continue
		}

		distance := Haversine(refLat, refLon, *game.Latitude, *game.Longitude)
		if distance <= radiusKm {
			nearby = append(nearby, GameDistance{Game: game, DistanceKm: distance})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	return nearby
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
