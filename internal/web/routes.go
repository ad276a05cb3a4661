package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/facelogix/kiosk/internal/camera"
	"github.com/facelogix/kiosk/internal/checkin"
	"github.com/facelogix/kiosk/internal/web/handlers"
)

func (s *Server) setupRoutes(session *camera.Session, orch *checkin.Orchestrator) {
	cameraHandler := handlers.NewCameraHandler(session)
	attemptHandler := handlers.NewAttemptHandler(orch)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)

		r.Route("/camera", func(r chi.Router) {
			r.Get("/", cameraHandler.Get)
			r.Post("/start", cameraHandler.Start)
			r.Post("/stop", cameraHandler.Stop)
			r.Post("/facing", cameraHandler.SwitchFacing)
			r.Get("/snapshot", cameraHandler.Snapshot)
		})

		r.Route("/attempt", func(r chi.Router) {
			r.Get("/", attemptHandler.Get)
			r.Post("/", attemptHandler.Trigger)
			r.Post("/reset", attemptHandler.Reset)
			r.Post("/type", attemptHandler.SetType)
		})

		r.Get("/events", attemptHandler.Events)
	})
}
