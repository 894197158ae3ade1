package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/courtside/pickup/internal/modules/core"
	"github.com/courtside/pickup/internal/modules/game/domain"
	"github.com/courtside/pickup/internal/modules/identity"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

// APILocation is a geocoder-selected location sent by the client.
type APILocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CreateGameCommand struct {
	CreatorID    string `json:"-"`
	CreatorEmail string `json:"-"`

	Sport          string       `json:"sport"`
	Time           time.Time    `json:"time"`
	MaxPlayers     int          `json:"maxPlayers"`
	APILocation    *APILocation `json:"apiLocation,omitempty"`
	ManualLocation string       `json:"manualLocation,omitempty"`
}

func (c CreateGameCommand) Validate() error {
	if c.CreatorID == "" {
		return fmt.Errorf("invalid CreatorID - '%s'", c.CreatorID)
	}

	if c.CreatorEmail == "" {
		return fmt.Errorf("invalid CreatorEmail - '%s'", c.CreatorEmail)
	}

	if c.Sport == "" {
		return fmt.Errorf("invalid Sport - '%s'", c.Sport)
	}

	if c.Time.IsZero() {
		return fmt.Errorf("missing required field Time")
	}

	if c.MaxPlayers < 1 {
		return fmt.Errorf("invalid MaxPlayers - %d", c.MaxPlayers)
	}

	hasAPILocation := c.APILocation != nil
	hasManualLocation := strings.TrimSpace(c.ManualLocation) != ""

	if hasAPILocation == hasManualLocation {
		return fmt.Errorf("exactly one of apiLocation and manualLocation is required")
	}

	return nil
}

func HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[CreateGameCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	caller := identity.FromContext(r.Context())
	command.CreatorID = caller.UserID
	command.CreatorEmail = caller.Email

	game, err := mediator.Send[CreateGameCommand, domain.Game](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join(r.Host, "games", game.ID.String())
	core.WriteCreated(w, r, location, game)
}

type CreateGameCommandHandler struct {
	db *sql.DB
}

func NewCreateGameCommandHandler(db *sql.DB) *CreateGameCommandHandler {
	return &CreateGameCommandHandler{db}
}

func (h *CreateGameCommandHandler) Handle(
	ctx context.Context,
	request CreateGameCommand,
) (domain.Game, error) {
	game := domain.NewGame(
		request.CreatorID,
		request.CreatorEmail,
		request.Sport,
		request.Time,
		request.MaxPlayers,
	)

	if request.APILocation != nil {
		game.LocationName = &request.APILocation.Name
		game.Latitude = &request.APILocation.Latitude
		game.Longitude = &request.APILocation.Longitude
	} else {
		manual := strings.TrimSpace(request.ManualLocation)
		game.ManualLocation = &manual
	}

	const stmt = `
		INSERT INTO
			games (id, creator_id, creator_email, location_name, latitude, longitude, manual_location, sport, time, max_players, players, status)
		VALUES
			(:id, :creator_id, :creator_email, :location_name, :latitude, :longitude, :manual_location, :sport, :time, :max_players, :players, :status);`
	if _, err := tql.Exec(ctx, h.db, stmt, game); err != nil {
		return domain.Game{}, core.NewCommandError(500, err, core.WithReason("failed to store game"))
	}

	return game, nil
}
