package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/courtside/pickup/internal/modules/core"
	"github.com/courtside/pickup/internal/modules/identity"
	"github.com/courtside/pickup/internal/modules/profile/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

type UpsertProfileCommand struct {
	UserID string `json:"-"`

	Name        string `json:"name"`
	Location    string `json:"location"`
	Interest    string `json:"interest"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

func (c UpsertProfileCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

func HandleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[UpsertProfileCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.UserID = identity.FromContext(r.Context()).UserID

	profile, err := mediator.Send[UpsertProfileCommand, domain.Profile](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, profile)
}

type UpsertProfileCommandHandler struct {
	db *sql.DB
}

func NewUpsertProfileCommandHandler(db *sql.DB) *UpsertProfileCommandHandler {
	return &UpsertProfileCommandHandler{db}
}

func (h *UpsertProfileCommandHandler) Handle(
	ctx context.Context,
	request UpsertProfileCommand,
) (domain.Profile, error) {
	profile := domain.Profile{
		UserID:      request.UserID,
		Name:        request.Name,
		Location:    request.Location,
		Interest:    request.Interest,
		Level:       request.Level,
		Description: request.Description,
	}

	const stmt = `
		INSERT INTO
			profiles (user_id, name, location, interest, level, description)
		VALUES
			(:user_id, :name, :location, :interest, :level, :description)
		ON CONFLICT (user_id)
		DO UPDATE
		SET
			name = :name, location = :location, interest = :interest, level = :level, description = :description;`
	if _, err := tql.Exec(ctx, h.db, stmt, profile); err != nil {
		return domain.Profile{}, core.NewCommandError(500, err, core.WithReason("failed to store profile"))
	}

	return profile, nil
}
