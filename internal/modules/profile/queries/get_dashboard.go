package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/courtside/pickup/internal/modules/core"
	gamedomain "github.com/courtside/pickup/internal/modules/game/domain"
	"github.com/courtside/pickup/internal/modules/identity"
	"github.com/courtside/pickup/internal/modules/profile/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

type GetDashboardQuery struct {
	UserID string
}

func (q GetDashboardQuery) Validate() error {
	if q.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", q.UserID)
	}

	return nil
}

type DashboardResponse struct {
	Profile domain.Profile    `json:"profile"`
	Games   []gamedomain.Game `json:"games"`
}

func HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	query := GetDashboardQuery{UserID: identity.FromContext(r.Context()).UserID}

	response, err := mediator.Send[GetDashboardQuery, DashboardResponse](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetDashboardQueryHandler struct {
	db *sql.DB
}

func NewGetDashboardQueryHandler(db *sql.DB) *GetDashboardQueryHandler {
	return &GetDashboardQueryHandler{db}
}

// Handle returns the caller's profile and created games. A missing profile
// is created empty on the spot so callers can rely on one existing after
// the first dashboard view.
func (h *GetDashboardQueryHandler) Handle(
	ctx context.Context,
	request GetDashboardQuery,
) (DashboardResponse, error) {
	const ensureStmt = `
		INSERT INTO
			profiles (user_id, name, location, interest, level, description)
		VALUES
			($1, '', '', '', '', '')
		ON CONFLICT (user_id)
		DO NOTHING;`
	if _, err := tql.Exec(ctx, h.db, ensureStmt, request.UserID); err != nil {
		return DashboardResponse{}, core.NewCommandError(500, err, core.WithReason("failed to read profile"))
	}

	const profileQuery = `
		SELECT
			*
		FROM
			profiles
		WHERE
			user_id = $1;`
	profile, err := tql.QueryFirst[domain.Profile](ctx, h.db, profileQuery, request.UserID)
	if err != nil {
		return DashboardResponse{}, core.NewCommandError(500, err, core.WithReason("failed to read profile"))
	}

	const gamesQuery = `
		SELECT
			*
		FROM
			games
		WHERE
			creator_id = $1;`
	games, err := tql.Query[gamedomain.Game](ctx, h.db, gamesQuery, request.UserID)
	if err != nil {
		return DashboardResponse{}, core.NewCommandError(500, err, core.WithReason("failed to read games"))
	}

	return DashboardResponse{Profile: profile, Games: games}, nil
}
