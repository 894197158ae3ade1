package main

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	gamecommands "github.com/courtside/pickup/internal/modules/game/commands"
	gamedomain "github.com/courtside/pickup/internal/modules/game/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createGameAt(t *testing.T, creatorID string, maxPlayers int, lat, lon float64) gamedomain.Game {
	t.Helper()

	command := gamecommands.CreateGameCommand{
		Sport:      "football",
		Time:       time.Now().Add(24 * time.Hour),
		MaxPlayers: maxPlayers,
		APILocation: &gamecommands.APILocation{
			Name:      "test pitch",
			Latitude:  lat,
			Longitude: lon,
		},
	}

	resp, game, err := sendAs[gamecommands.CreateGameCommand, gamedomain.Game](
		fixture.client, creatorID, http.MethodPost, fixture.baseURL+"/games", command,
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return game
}

func joinGame(userID string, gameID uuid.UUID) (*http.Response, gamedomain.Game, error) {
	return sendAs[gamecommands.JoinGameCommand, gamedomain.Game](
		fixture.client,
		userID,
		http.MethodPost,
		fmt.Sprintf("%s/games/%s/actions/join", fixture.baseURL, gameID),
		gamecommands.JoinGameCommand{UserID: userID},
	)
}

func Test_CreateGame_Stores_Creator_As_First_Player(t *testing.T) {
	// Arrange
	creatorID := uuid.NewString()

	// Act
	game := createGameAt(t, creatorID, 10, 45.815, 15.9819)

	// Assert
	require.Equal(t, creatorID, game.CreatorID)
	require.Equal(t, creatorID+"@example.com", game.CreatorEmail)
	require.Equal(t, []string{creatorID}, []string(game.Players))
	require.Equal(t, gamedomain.StatusOpen, game.Status)
}

func Test_CreateGame_Returns_400_When_Both_Locations_Present(t *testing.T) {
	// Arrange
	command := gamecommands.CreateGameCommand{
		Sport:      "football",
		Time:       time.Now().Add(24 * time.Hour),
		MaxPlayers: 10,
		APILocation: &gamecommands.APILocation{
			Name:      "test pitch",
			Latitude:  45.815,
			Longitude: 15.9819,
		},
		ManualLocation: "the park behind the library",
	}

	// Act
	resp, _, err := sendAs[gamecommands.CreateGameCommand, gamedomain.Game](
		fixture.client, uuid.NewString(), http.MethodPost, fixture.baseURL+"/games", command,
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_CreateGame_Returns_400_When_No_Location_Present(t *testing.T) {
	// Arrange
	command := gamecommands.CreateGameCommand{
		Sport:      "football",
		Time:       time.Now().Add(24 * time.Hour),
		MaxPlayers: 10,
	}

	// Act
	resp, _, err := sendAs[gamecommands.CreateGameCommand, gamedomain.Game](
		fixture.client, uuid.NewString(), http.MethodPost, fixture.baseURL+"/games", command,
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_CreateGame_Returns_401_Without_Token(t *testing.T) {
	// Act
	resp, err := fixture.client.Post(fixture.baseURL+"/games", "application/json", nil)

	// Assert
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_JoinGame_Appends_Player(t *testing.T) {
	// Arrange
	game := createGameAt(t, uuid.NewString(), 5, 45.815, 15.9819)
	userID := uuid.NewString()

	// Act
	resp, joined, err := joinGame(userID, game.ID)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{game.CreatorID, userID}, []string(joined.Players))
}

func Test_JoinGame_Twice_Returns_400(t *testing.T) {
	// Arrange
	game := createGameAt(t, uuid.NewString(), 5, 45.815, 15.9819)
	userID := uuid.NewString()

	resp, _, err := joinGame(userID, game.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Act
	resp, _, err = joinGame(userID, game.ID)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_JoinGame_Full_Game_Returns_400_And_Roster_Unchanged(t *testing.T) {
	// Arrange
	game := createGameAt(t, uuid.NewString(), 1, 45.815, 15.9819)

	// Act
	resp, _, err := joinGame(uuid.NewString(), game.ID)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, games, err := getAs[[]gamedomain.Game](fixture.client, game.CreatorID, fixture.baseURL+"/games")
	require.NoError(t, err)
	for _, g := range games {
		if g.ID == game.ID {
			require.Equal(t, []string{game.CreatorID}, []string(g.Players))
		}
	}
}

func Test_JoinGame_Unknown_Game_Returns_404(t *testing.T) {
	// Act
	resp, _, err := joinGame(uuid.NewString(), uuid.New())

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_Concurrent_Joins_Never_Exceed_Capacity(t *testing.T) {
	// Arrange
	game := createGameAt(t, uuid.NewString(), 3, 45.815, 15.9819)

	// Act
	var wg sync.WaitGroup
	statuses := make(chan int, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, _, err := joinGame(uuid.NewString(), game.ID)
			if err != nil {
				return
			}
			statuses <- resp.StatusCode
		}()
	}

	wg.Wait()
	close(statuses)

	// Assert
	succeeded := 0
	for status := range statuses {
		if status == http.StatusOK {
			succeeded++
		}
	}
	require.Equal(t, 2, succeeded) // creator holds one of the three slots

	_, games, err := getAs[[]gamedomain.Game](fixture.client, game.CreatorID, fixture.baseURL+"/games")
	require.NoError(t, err)
	for _, g := range games {
		if g.ID == game.ID {
			require.Len(t, g.Players, 3)
			require.Equal(t, gamedomain.StatusFull, g.Status)
		}
	}
}

func Test_LeaveGame_Is_Idempotent(t *testing.T) {
	// Arrange
	game := createGameAt(t, uuid.NewString(), 5, 45.815, 15.9819)
	userID := uuid.NewString()

	_, _, err := joinGame(userID, game.ID)
	require.NoError(t, err)

	leave := func() (*http.Response, gamedomain.Game, error) {
		return sendAs[gamecommands.LeaveGameCommand, gamedomain.Game](
			fixture.client,
			userID,
			http.MethodPost,
			fmt.Sprintf("%s/games/%s/actions/leave", fixture.baseURL, game.ID),
			gamecommands.LeaveGameCommand{UserID: userID},
		)
	}

	// Act
	resp, left, err := leave()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{game.CreatorID}, []string(left.Players))

	resp, left, err = leave()

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{game.CreatorID}, []string(left.Players))
}

func Test_LeaveGame_Unknown_Game_Returns_404(t *testing.T) {
	// Act
	resp, _, err := sendAs[gamecommands.LeaveGameCommand, gamedomain.Game](
		fixture.client,
		uuid.NewString(),
		http.MethodPost,
		fmt.Sprintf("%s/games/%s/actions/leave", fixture.baseURL, uuid.New()),
		gamecommands.LeaveGameCommand{UserID: uuid.NewString()},
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_DeleteGame_By_NonCreator_Returns_403_And_Keeps_Game(t *testing.T) {
	// Arrange
	game := createGameAt(t, uuid.NewString(), 5, 45.815, 15.9819)

	// Act
	resp, _, err := sendAs[struct{}, gamecommands.DeleteGameResponse](
		fixture.client,
		uuid.NewString(),
		http.MethodDelete,
		fmt.Sprintf("%s/games/%s", fixture.baseURL, game.ID),
		struct{}{},
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, games, err := getAs[[]gamedomain.Game](fixture.client, game.CreatorID, fixture.baseURL+"/games")
	require.NoError(t, err)

	found := false
	for _, g := range games {
		if g.ID == game.ID {
			found = true
		}
	}
	require.True(t, found)
}

func Test_DeleteGame_By_Creator_Removes_Game(t *testing.T) {
	// Arrange
	game := createGameAt(t, uuid.NewString(), 5, 45.815, 15.9819)

	// Act
	resp, _, err := sendAs[struct{}, gamecommands.DeleteGameResponse](
		fixture.client,
		game.CreatorID,
		http.MethodDelete,
		fmt.Sprintf("%s/games/%s", fixture.baseURL, game.ID),
		struct{}{},
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	joinResp, _, err := joinGame(uuid.NewString(), game.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, joinResp.StatusCode)
}

func Test_NearbyGames_Returns_Sorted_Games_Within_Radius(t *testing.T) {
	// Arrange
	creatorID := uuid.NewString()
	atOrigin := createGameAt(t, creatorID, 5, 0, 0)
	nearOrigin := createGameAt(t, creatorID, 5, 0, 0.2)
	createGameAt(t, creatorID, 5, 1, 1) // ~157 km out, excluded

	// Act
	resp, result, err := getAs[[]gamedomain.GameDistance](
		fixture.client,
		creatorID,
		fixture.baseURL+"/games/nearby?lat=0&lon=0",
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, result, 2)
	require.Equal(t, atOrigin.ID, result[0].Game.ID)
	require.Equal(t, nearOrigin.ID, result[1].Game.ID)
	for _, gd := range result {
		require.LessOrEqual(t, gd.DistanceKm, gamedomain.NearbyRadiusKm)
	}
}

func Test_NearbyGames_Returns_400_When_Coordinates_Missing(t *testing.T) {
	// Act
	resp, _, err := getAs[[]gamedomain.GameDistance](
		fixture.client,
		uuid.NewString(),
		fixture.baseURL+"/games/nearby?lat=45.8",
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
