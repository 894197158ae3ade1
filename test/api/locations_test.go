package main

import (
	"net/http"
	"testing"

	"github.com/courtside/pickup/internal/modules/geocode"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_SuggestLocations_Proxies_Geocoder_Candidates(t *testing.T) {
	// Act
	resp, suggestions, err := getAs[[]geocode.Suggestion](
		fixture.client,
		uuid.NewString(),
		fixture.baseURL+"/locations/suggestions?q=maksimir",
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, suggestions, 1)
	require.Equal(t, "Test Park", suggestions[0].Name)
	require.InDelta(t, 45.8150, suggestions[0].Latitude, 1e-6)
	require.InDelta(t, 15.9819, suggestions[0].Longitude, 1e-6)
}

func Test_SuggestLocations_Returns_400_When_Query_Missing(t *testing.T) {
	// Act
	resp, _, err := getAs[[]geocode.Suggestion](
		fixture.client,
		uuid.NewString(),
		fixture.baseURL+"/locations/suggestions",
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
