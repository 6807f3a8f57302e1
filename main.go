package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prodoffice/crew-timesheet/authenticator"
	"github.com/prodoffice/crew-timesheet/config"
	"github.com/prodoffice/crew-timesheet/controllers"
	"github.com/prodoffice/crew-timesheet/database"
	appmiddleware "github.com/prodoffice/crew-timesheet/middleware"
	"github.com/prodoffice/crew-timesheet/repositories"
	"github.com/prodoffice/crew-timesheet/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.LogLevel)

	// Initialize database
	if err := database.InitializeDatabase(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.CloseDB()

	// Initialize repositories, services and controllers
	repos := repositories.NewRepositories(database.GetDB())
	srvs := services.NewServices(repos)
	ctrl := controllers.NewControllers(srvs)

	// Initialize the OpenID Connect authenticator unless disabled
	var auth *authenticator.Authenticator
	if !cfg.AuthDisabled {
		auth, err = authenticator.New(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize authenticator")
		}
	}

	r, err := setupRouter(cfg, ctrl, auth, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup router")
	}

	log.Info().Str("port", cfg.Port).Str("database", cfg.DatabasePath).Msg("crew timesheet starting")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// setupLogging configures the global zerolog logger
func setupLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// setupRouter configures all routes
func setupRouter(cfg *config.Config, ctrl *controllers.Controllers, auth *authenticator.Authenticator, repos *repositories.Repositories) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks
	r.Use(chimiddleware.Compress(5))

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "crew_timesheet_session",
		Secure:         cfg.UseHTTPS,
		Gclifetime:     3600,
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// PUBLIC ROUTES (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "crew-timesheet"}`)
	})

	if auth != nil {
		r.Get("/login", ctrl.Auth.Login(auth))
		r.Get("/callback", ctrl.Auth.Callback(auth))
		r.Get("/logout", ctrl.Auth.Logout)
	}

	// PROTECTED ROUTES (authentication required)
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireAuth(cfg.AuthDisabled))
		r.Use(appmiddleware.AuditLogger(repos.Audit))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", ctrl.Project.Index)
			r.Post("/", ctrl.Project.Create)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", ctrl.Project.Show)
				r.Put("/", ctrl.Project.Update)
				r.Delete("/", ctrl.Project.Delete)

				// Roster routes
				r.Route("/crew", func(r chi.Router) {
					r.Get("/", ctrl.Crew.Index)
					r.Get("/keys", ctrl.Crew.Keys)
					r.Post("/", ctrl.Crew.Create)
					r.Put("/{id}", ctrl.Crew.Update)
					r.Delete("/{id}", ctrl.Crew.Delete)
				})

				// Week plan routes
				r.Route("/weeks", func(r chi.Router) {
					r.Get("/", ctrl.Week.Timeline)
					r.Get("/{date}", ctrl.Week.Show)
					r.Put("/", ctrl.Week.Save)
					r.Delete("/{id}", ctrl.Week.Delete)
				})

				// Condition parameter routes
				r.Route("/conditions", func(r chi.Router) {
					r.Get("/{mode}", ctrl.Conditions.Show)
					r.Put("/{mode}", ctrl.Conditions.Update)
				})

				// Report grid routes
				r.Route("/report", func(r chi.Router) {
					r.Get("/", ctrl.Report.Show)
					r.Post("/recompute", ctrl.Report.Recompute)
					r.Put("/cell", ctrl.Report.SetCell)
					r.Get("/totals", ctrl.Report.Totals)
					r.Get("/collapsed", ctrl.Report.Collapsed)
					r.Post("/collapsed", ctrl.Report.ToggleCollapsed)
					r.Get("/export/{month}", ctrl.Report.ExportRange)
					r.Put("/export/{month}", ctrl.Report.SetExportRange)
				})
			})
		})
	})

	return r, nil
}
