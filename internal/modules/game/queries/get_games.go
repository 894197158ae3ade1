package queries

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/courtside/pickup/internal/modules/core"
	"github.com/courtside/pickup/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

type GetGamesQuery struct{}

func HandleGetGames(w http.ResponseWriter, r *http.Request) {
	response, err := mediator.Send[GetGamesQuery, []domain.Game](r.Context(), GetGamesQuery{})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetGamesQueryHandler struct {
	db *sql.DB
}

func NewGetGamesQueryHandler(db *sql.DB) *GetGamesQueryHandler {
	return &GetGamesQueryHandler{db}
}

func (h *GetGamesQueryHandler) Handle(
	ctx context.Context,
	request GetGamesQuery,
) ([]domain.Game, error) {
	const query = `
		SELECT
			*
		FROM
			games;`
	games, err := tql.Query[domain.Game](ctx, h.db, query)
	if err != nil {
		return nil, core.NewCommandError(500, err, core.WithReason("failed to read games"))
	}

	return games, nil
}
