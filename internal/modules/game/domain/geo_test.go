package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func gameAt(lat, lon float64) Game {
	name := "test location"
	return Game{
		LocationName: &name,
		Latitude:     &lat,
		Longitude:    &lon,
	}
}

func Test_Haversine_Distance_To_Self_Is_Zero(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{45.815, 15.9819},
		{-33.8688, 151.2093},
		{90, 0},
	}

	for _, p := range points {
		require.Zero(t, Haversine(p[0], p[1], p[0], p[1]))
	}
}

func Test_Haversine_Is_Symmetric(t *testing.T) {
	d1 := Haversine(45.815, 15.9819, 48.2082, 16.3738)
	d2 := Haversine(48.2082, 16.3738, 45.815, 15.9819)

	require.InDelta(t, d1, d2, 1e-9)
}

func Test_Haversine_Known_Distance(t *testing.T) {
	// One degree of longitude on the equator is roughly 111.19 km.
	d := Haversine(0, 0, 0, 1)

	require.InDelta(t, 111.19, d, 0.05)
}

func Test_Nearby_Filters_Sorts_And_Excludes_Distant_Games(t *testing.T) {
	// Arrange
	atOrigin := gameAt(0, 0)
	nearOrigin := gameAt(0, 0.2) // ~22.2 km
	faraway := gameAt(1, 1)      // ~157 km

	games := []Game{faraway, nearOrigin, atOrigin}

	// Act
	result := Nearby(games, 0, 0, NearbyRadiusKm)

	// Assert
	require.Len(t, result, 2)
	require.Equal(t, atOrigin.Latitude, result[0].Game.Latitude)
	require.Equal(t, nearOrigin.Latitude, result[1].Game.Latitude)
	require.Zero(t, result[0].DistanceKm)
	require.InDelta(t, 22.2, result[1].DistanceKm, 0.1)
}

func Test_Nearby_Result_Is_Sorted_Ascending_Within_Radius(t *testing.T) {
	// Arrange
	games := []Game{
		gameAt(0, 0.15),
		gameAt(0, 0.01),
		gameAt(0.1, 0),
		gameAt(0, 0.2),
	}

	// Act
	result := Nearby(games, 0, 0, NearbyRadiusKm)

	// Assert
	require.Len(t, result, len(games))
	for i := 1; i < len(result); i++ {
		require.LessOrEqual(t, result[i-1].DistanceKm, result[i].DistanceKm)
		require.LessOrEqual(t, result[i].DistanceKm, NearbyRadiusKm)
	}
}

func Test_Nearby_Excludes_Games_Without_Coordinates(t *testing.T) {
	// Arrange
	manual := "some park downtown"
	games := []Game{
		{ManualLocation: &manual},
		gameAt(0, 0),
	}

	// Act
	result := Nearby(games, 0, 0, NearbyRadiusKm)

	// Assert
	require.Len(t, result, 1)
	require.True(t, result[0].Game.HasCoordinates())
}

func Test_Nearby_Of_Empty_Set_Is_Empty(t *testing.T) {
	require.Empty(t, Nearby(nil, 0, 0, NearbyRadiusKm))
}
