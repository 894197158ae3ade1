package queries

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/courtside/pickup/internal/modules/core"
	"github.com/courtside/pickup/internal/modules/geocode"

	"github.com/eskrenkovic/mediator-go"
)

type SuggestLocationsQuery struct {
	Query string
	Limit int
}

func (q SuggestLocationsQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return fmt.Errorf("invalid Query - '%s'", q.Query)
	}

	return nil
}

func HandleSuggestLocations(w http.ResponseWriter, r *http.Request) {
	query := SuggestLocationsQuery{Query: r.URL.Query().Get("q")}

	response, err := mediator.Send[SuggestLocationsQuery, []geocode.Suggestion](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SuggestLocationsQueryHandler struct {
	client *geocode.Client
}

func NewSuggestLocationsQueryHandler(client *geocode.Client) *SuggestLocationsQueryHandler {
	return &SuggestLocationsQueryHandler{client}
}

func (h *SuggestLocationsQueryHandler) Handle(
	ctx context.Context,
	request SuggestLocationsQuery,
) ([]geocode.Suggestion, error) {
	suggestions, err := h.client.Search(ctx, request.Query, request.Limit)
	if err != nil {
		return nil, core.NewCommandError(502, err, core.WithReason("geocoding service unavailable"))
	}

	return suggestions, nil
}
