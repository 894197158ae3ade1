package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/courtside/pickup/internal/modules/core"
	"github.com/courtside/pickup/internal/modules/game/domain"
	"github.com/courtside/pickup/internal/modules/identity"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type JoinGameCommand struct {
	GameID uuid.UUID
	UserID string
}

func (c JoinGameCommand) Validate() error {
	if c.GameID == uuid.Nil {
		return fmt.Errorf("invalid GameID - '%s'", c.GameID)
	}

	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

func HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteResponse(w, r, http.StatusNotFound, fmt.Errorf("game not found"))
		return
	}

	command := JoinGameCommand{
		GameID: gameID,
		UserID: identity.FromContext(r.Context()).UserID,
	}

	game, err := mediator.Send[JoinGameCommand, domain.Game](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, game)
}

type JoinGameCommandHandler struct {
	db *sql.DB
}

func NewJoinGameCommandHandler(db *sql.DB) *JoinGameCommandHandler {
	return &JoinGameCommandHandler{db}
}

// Handle serializes the read-modify-write per game row with a row lock so
// two concurrent joins on a near-full game cannot both pass the capacity
// check.
func (h *JoinGameCommandHandler) Handle(
	ctx context.Context,
	request JoinGameCommand,
) (domain.Game, error) {
	var game domain.Game

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		const query = `
			SELECT
				*
			FROM
				games
			WHERE
				id = $1
			FOR UPDATE;`
		g, err := tql.QueryFirst[domain.Game](ctx, tx, query, request.GameID)
		if err != nil {
			return err
		}

		if err := g.Join(request.UserID); err != nil {
			return err
		}

		const stmt = `
			UPDATE
				games
			SET
				players = $2, status = $3
			WHERE
				id = $1;`
		if _, err := tql.Exec(ctx, tx, stmt, g.ID, g.Players, g.Status); err != nil {
			return err
		}

		game = g
		return nil
	}

	err := core.Tx(ctx, h.db, txFn)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Game{}, core.NewCommandError(404, err, core.WithReason("game not found"))
	case errors.Is(err, domain.ErrAlreadyJoined):
		return domain.Game{}, core.NewCommandError(400, err, core.WithReason("already joined"))
	case errors.Is(err, domain.ErrGameFull):
		return domain.Game{}, core.NewCommandError(400, err, core.WithReason("game is full"))
	case err != nil:
		return domain.Game{}, core.NewCommandError(500, err, core.WithReason("failed to join game"))
	}

	return game, nil
}
