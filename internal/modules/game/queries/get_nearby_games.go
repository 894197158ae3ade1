package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/courtside/pickup/internal/modules/core"
	"github.com/courtside/pickup/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

type GetNearbyGamesQuery struct {
	Latitude  float64
	Longitude float64
}

func (q GetNearbyGamesQuery) Validate() error {
	if q.Latitude < -90 || q.Latitude > 90 {
		return fmt.Errorf("invalid Latitude - %f", q.Latitude)
	}

	if q.Longitude < -180 || q.Longitude > 180 {
		return fmt.Errorf("invalid Longitude - %f", q.Longitude)
	}

	return nil
}

func HandleGetNearbyGames(w http.ResponseWriter, r *http.Request) {
	latParam := r.URL.Query().Get("lat")
	lonParam := r.URL.Query().Get("lon")
	if latParam == "" || lonParam == "" {
		core.WriteBadRequest(w, r, fmt.Errorf("missing required query params 'lat' and 'lon'"))
		return
	}

	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'lat'"))
		return
	}

	lon, err := strconv.ParseFloat(lonParam, 64)
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'lon'"))
		return
	}

	response, err := mediator.Send[GetNearbyGamesQuery, []domain.GameDistance](
		r.Context(),
		GetNearbyGamesQuery{Latitude: lat, Longitude: lon},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetNearbyGamesQueryHandler struct {
	db *sql.DB
}

func NewGetNearbyGamesQueryHandler(db *sql.DB) *GetNearbyGamesQueryHandler {
	return &GetNearbyGamesQueryHandler{db}
}

// Handle scans every stored game and filters by great-circle distance in
// process. Games without an API coordinate are never returned.
func (h *GetNearbyGamesQueryHandler) Handle(
	ctx context.Context,
	request GetNearbyGamesQuery,
) ([]domain.GameDistance, error) {
	const query = `
		SELECT
			*
		FROM
			games;`
	games, err := tql.Query[domain.Game](ctx, h.db, query)
	if err != nil {
		return nil, core.NewCommandError(500, err, core.WithReason("failed to read games"))
	}

	return domain.Nearby(games, request.Latitude, request.Longitude, domain.NearbyRadiusKm), nil
}
