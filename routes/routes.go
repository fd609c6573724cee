package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/movipadel/tornei-app/docs"
	"github.com/movipadel/tornei-app/handlers"
	"github.com/movipadel/tornei-app/middleware"
)

// SetupRoutes mounts the full API surface. Reads are public; every
// mutating endpoint except registration sign-up sits behind the admin JWT.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	registrationHandler *handlers.RegistrationHandler,
	runHandler *handlers.RunHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	admin := middleware.RequireAdmin(jwtSecret)

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.LoginHandler)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.ListHandler)
			r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
			r.Get("/{tournamentID}/registrations", registrationHandler.ListHandler)
			r.Post("/{tournamentID}/registrations", registrationHandler.CreateHandler)
			r.Get("/{tournamentID}/run", runHandler.GetHandler)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", tournamentHandler.CreateHandler)
				r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
				r.Post("/{tournamentID}/run", runHandler.StartHandler)
				r.Post("/{tournamentID}/run/bracket", runHandler.BuildBracketHandler)
				r.Delete("/{tournamentID}/run", runHandler.ResetHandler)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Patch("/registrations/{registrationID}/status", registrationHandler.SetStatusHandler)
			r.Delete("/registrations/{registrationID}", registrationHandler.DeleteHandler)
			r.Patch("/matches/{matchID}/score", matchHandler.PatchScoreHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.OpenAPISpec)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
