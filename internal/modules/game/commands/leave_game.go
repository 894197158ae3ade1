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

type LeaveGameCommand struct {
	GameID uuid.UUID
	UserID string
}

func (c LeaveGameCommand) Validate() error {
	if c.GameID == uuid.Nil {
		return fmt.Errorf("invalid GameID - '%s'", c.GameID)
	}

	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

func HandleLeaveGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteResponse(w, r, http.StatusNotFound, fmt.Errorf("game not found"))
		return
	}

	command := LeaveGameCommand{
		GameID: gameID,
		UserID: identity.FromContext(r.Context()).UserID,
	}

	game, err := mediator.Send[LeaveGameCommand, domain.Game](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, game)
}

type LeaveGameCommandHandler struct {
	db *sql.DB
}

func NewLeaveGameCommandHandler(db *sql.DB) *LeaveGameCommandHandler {
	return &LeaveGameCommandHandler{db}
}

func (h *LeaveGameCommandHandler) Handle(
	ctx context.Context,
	request LeaveGameCommand,
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

		// Leaving a game you are not part of is an idempotent no-op.
		if !g.Leave(request.UserID) {
			game = g
			return nil
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
	case err != nil:
		return domain.Game{}, core.NewCommandError(500, err, core.WithReason("failed to leave game"))
	}

	return game, nil
}
