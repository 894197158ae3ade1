package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/courtside/pickup/internal/config"
	"github.com/courtside/pickup/internal/modules/core"
	gamecommands "github.com/courtside/pickup/internal/modules/game/commands"
	gamedomain "github.com/courtside/pickup/internal/modules/game/domain"
	gamequeries "github.com/courtside/pickup/internal/modules/game/queries"
	"github.com/courtside/pickup/internal/modules/geocode"
	geocodequeries "github.com/courtside/pickup/internal/modules/geocode/queries"
	"github.com/courtside/pickup/internal/modules/identity"
	profilecommands "github.com/courtside/pickup/internal/modules/profile/commands"
	profiledomain "github.com/courtside/pickup/internal/modules/profile/domain"
	profilequeries "github.com/courtside/pickup/internal/modules/profile/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/migrate-go"
	"github.com/go-chi/chi"
	_ "github.com/lib/pq"
	"github.com/rs/cors"
)

type Server interface {
	Start() error
	Stop(ctx context.Context) error
}

var _ Server = &HTTPServer{}

// HTTPServer is the composition root for the application. It owns the one
// shared database pool, opened at startup and released on Stop.
type HTTPServer struct {
	server *http.Server
	db     *sql.DB
}

func NewHTTPServer(config config.Config) (*HTTPServer, error) {
	baseCtx := context.Background()

	core.SetLogger(config.Logger)

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(baseCtx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if err := migrate.Run(baseCtx, db, config.MigrationsPath); err != nil {
		return nil, err
	}

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: config.Logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: config.Logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	// handler registration

	// game

	createGameHandler := gamecommands.NewCreateGameCommandHandler(db)
	err = mediator.RegisterRequestHandler[gamecommands.CreateGameCommand, gamedomain.Game](
		createGameHandler,
	)
	if err != nil {
		return nil, err
	}

	joinGameHandler := gamecommands.NewJoinGameCommandHandler(db)
	err = mediator.RegisterRequestHandler[gamecommands.JoinGameCommand, gamedomain.Game](
		joinGameHandler,
	)
	if err != nil {
		return nil, err
	}

	leaveGameHandler := gamecommands.NewLeaveGameCommandHandler(db)
	err = mediator.RegisterRequestHandler[gamecommands.LeaveGameCommand, gamedomain.Game](
		leaveGameHandler,
	)
	if err != nil {
		return nil, err
	}

	deleteGameHandler := gamecommands.NewDeleteGameCommandHandler(db)
	err = mediator.RegisterRequestHandler[gamecommands.DeleteGameCommand, gamecommands.DeleteGameResponse](
		deleteGameHandler,
	)
	if err != nil {
		return nil, err
	}

	getGamesHandler := gamequeries.NewGetGamesQueryHandler(db)
	err = mediator.RegisterRequestHandler[gamequeries.GetGamesQuery, []gamedomain.Game](
		getGamesHandler,
	)
	if err != nil {
		return nil, err
	}

	getNearbyGamesHandler := gamequeries.NewGetNearbyGamesQueryHandler(db)
	err = mediator.RegisterRequestHandler[gamequeries.GetNearbyGamesQuery, []gamedomain.GameDistance](
		getNearbyGamesHandler,
	)
	if err != nil {
		return nil, err
	}

	// profile

	upsertProfileHandler := profilecommands.NewUpsertProfileCommandHandler(db)
	err = mediator.RegisterRequestHandler[profilecommands.UpsertProfileCommand, profiledomain.Profile](
		upsertProfileHandler,
	)
	if err != nil {
		return nil, err
	}

	getDashboardHandler := profilequeries.NewGetDashboardQueryHandler(db)
	err = mediator.RegisterRequestHandler[profilequeries.GetDashboardQuery, profilequeries.DashboardResponse](
		getDashboardHandler,
	)
	if err != nil {
		return nil, err
	}

	// geocode

	geocodeClient := geocode.NewClient(config.GeocoderURL, config.GeocoderUserAgent)
	suggestLocationsHandler := geocodequeries.NewSuggestLocationsQueryHandler(geocodeClient)
	err = mediator.RegisterRequestHandler[geocodequeries.SuggestLocationsQuery, []geocode.Suggestion](
		suggestLocationsHandler,
	)
	if err != nil {
		return nil, err
	}

	// http

	verifier := identity.NewHTTPTokenVerifier(config.IdentityProviderURL)

	router := chi.NewRouter()
	router.Use(core.CorrelationIDHTTPMiddleware)
	router.Use(rateLimitMiddleware(config.RateLimitRequests, config.RateLimitWindow))

	router.Get("/health", healthHandler(db))

	router.Group(func(r chi.Router) {
		r.Use(identity.AuthenticationMiddleware(verifier))

		r.Post("/profiles", profilecommands.HandleUpsertProfile)
		r.Get("/dashboard", profilequeries.HandleGetDashboard)

		r.Post("/games", gamecommands.HandleCreateGame)
		r.Get("/games", gamequeries.HandleGetGames)
		r.Get("/games/nearby", gamequeries.HandleGetNearbyGames)
		r.Post("/games/{id}/actions/join", gamecommands.HandleJoinGame)
		r.Post("/games/{id}/actions/leave", gamecommands.HandleLeaveGame)
		r.Delete("/games/{id}", gamecommands.HandleDeleteGame)

		r.Get("/locations/suggestions", geocodequeries.HandleSuggestLocations)
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", core.CorrelationIDHeader},
	})

	server := http.Server{
		Addr:    net.JoinHostPort("", fmt.Sprintf("%d", config.Port)),
		Handler: corsHandler.Handler(router),
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}

	return &HTTPServer{server: &server, db: db}, nil
}

func (s *HTTPServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains in-flight requests, then releases the database pool.
func (s *HTTPServer) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	return s.db.Close()
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			core.WriteInternalServerError(w, r, nil)
			return
		}

		core.WriteOK(w, r, map[string]string{"status": "ok"})
	}
}
