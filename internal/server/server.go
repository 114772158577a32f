package server

import (
	"net/http"
	"ootp-toolkit/internal/config"
	"ootp-toolkit/internal/constants"
	"ootp-toolkit/internal/middleware"
	"ootp-toolkit/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server exposes the widgets over JSON HTTP.
type Server struct {
	scoring   *service.ScoringService
	games     *service.GameService
	summaries *service.SummaryService
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewServer(
	scoring *service.ScoringService,
	games *service.GameService,
	summaries *service.SummaryService,
	cfg *config.Config,
	logger zerolog.Logger,
) *Server {
	return &Server{
		scoring:   scoring,
		games:     games,
		summaries: summaries,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(constants.RequestTimeout))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler)

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/systems", s.listSystems)
		r.Post("/score", s.score)
		r.Post("/csv/score", s.scoreCSV)
		r.Post("/csv/fetch", s.fetchCSV)
		r.Post("/metrics", s.addMetric)
		r.Post("/export/xlsx", s.exportXLSX)

		r.Route("/summaries", func(r chi.Router) {
			r.Post("/player", s.playerSummary)
			r.Post("/team", s.teamSummary)
		})

		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.createGame)
			r.Get("/{id}", s.getGame)
			r.Post("/{id}/roster/{index}", s.pick)
			r.Delete("/{id}/roster/{index}", s.drop)
			r.Post("/{id}/lock", s.lock)
		})

		r.Get("/streak", s.streak)
		r.Post("/streak/picks", s.streakPick)
	})

	return r
}
