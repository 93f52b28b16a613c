package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/teampulse/teampulse/internal/api/handler"
	"github.com/teampulse/teampulse/internal/api/middleware"
	"github.com/teampulse/teampulse/internal/feeling"
	"github.com/teampulse/teampulse/internal/sprint"
	"github.com/teampulse/teampulse/internal/team"
	"github.com/teampulse/teampulse/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.DBPinger
	Version       string
	Teams         team.Repository
	Users         user.Repository
	Feelings      feeling.Repository
	SprintService *sprint.Service
	Feedback      handler.FeedbackService
	BcryptCost    int
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	teamHandler := handler.NewTeamHandler(deps.Teams, deps.Users)
	r.Route("/teams", func(r chi.Router) {
		r.Post("/", teamHandler.Create)
		r.Get("/", teamHandler.List)
		r.Get("/{id}", teamHandler.GetByID)
		r.Patch("/{id}", teamHandler.Update)
	})

	userHandler := handler.NewUserHandler(deps.Users, deps.Teams, deps.BcryptCost)
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/{id}", userHandler.GetByID)
	})

	sprintHandler := handler.NewSprintHandler(deps.SprintService)
	r.Post("/sprints", sprintHandler.Create)
	r.Get("/teams/{id}/active-sprint", sprintHandler.Active)

	feelingHandler := handler.NewFeelingHandler(deps.Feelings)
	r.Route("/feelings", func(r chi.Router) {
		r.Post("/", feelingHandler.Create)
		r.Get("/", feelingHandler.List)
	})

	feedbackHandler := handler.NewFeedbackHandler(deps.Feedback)
	r.Route("/feedback", func(r chi.Router) {
		r.Post("/", feedbackHandler.Create)
		r.Post("/{id}/approve", feedbackHandler.Approve)
		r.Post("/{id}/reject", feedbackHandler.Reject)
		r.Get("/sent/{id}", feedbackHandler.Sent)
		r.Get("/received/{id}", feedbackHandler.Received)
		r.Get("/pending/team/{id}", feedbackHandler.PendingForManager)
		r.Get("/pending/recipient/{id}", feedbackHandler.PendingForRecipient)
	})

	return r
}
