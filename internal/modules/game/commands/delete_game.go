package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/courtside/pickup/internal/modules/core"
	"github.com/courtside/pickup/internal/modules/identity"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

var errNotCreator = errors.New("only the creator may delete a game")

type DeleteGameCommand struct {
	GameID  uuid.UUID
	ActorID string
}

func (c DeleteGameCommand) Validate() error {
	if c.GameID == uuid.Nil {
		return fmt.Errorf("invalid GameID - '%s'", c.GameID)
	}

	if c.ActorID == "" {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	return nil
}

type DeleteGameResponse struct {
	Message string `json:"message"`
}

func HandleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteResponse(w, r, http.StatusNotFound, fmt.Errorf("game not found"))
		return
	}

	command := DeleteGameCommand{
		GameID:  gameID,
		ActorID: identity.FromContext(r.Context()).UserID,
	}

	response, err := mediator.Send[DeleteGameCommand, DeleteGameResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type DeleteGameCommandHandler struct {
	db *sql.DB
}

func NewDeleteGameCommandHandler(db *sql.DB) *DeleteGameCommandHandler {
	return &DeleteGameCommandHandler{db}
}

func (h *DeleteGameCommandHandler) Handle(
	ctx context.Context,
	request DeleteGameCommand,
) (DeleteGameResponse, error) {
	txFn := func(ctx context.Context, tx *sql.Tx) error {
		const query = `
			SELECT
				creator_id
			FROM
				games
			WHERE
				id = $1
			FOR UPDATE;`
		creatorID, err := tql.QueryFirst[string](ctx, tx, query, request.GameID)
		if err != nil {
			return err
		}

		if creatorID != request.ActorID {
			return errNotCreator
		}

		const stmt = `
			DELETE FROM
				games
			WHERE
				id = $1;`
		_, err = tql.Exec(ctx, tx, stmt, request.GameID)
		return err
	}

	err := core.Tx(ctx, h.db, txFn)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return DeleteGameResponse{}, core.NewCommandError(404, err, core.WithReason("game not found"))
	case errors.Is(err, errNotCreator):
		return DeleteGameResponse{}, core.NewCommandError(403, err, core.WithReason("not authorized to delete this game"))
	case err != nil:
		return DeleteGameResponse{}, core.NewCommandError(500, err, core.WithReason("failed to delete game"))
	}

	return DeleteGameResponse{Message: "game deleted"}, nil
}
