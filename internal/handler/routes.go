package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hospital-workflow-api/internal/middleware"
)

// Routes assembles the API router. The credential endpoints sit behind the
// per-IP rate limiter; everything else requires a Bearer token.
func (h *Handler) Routes(rl *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(h.log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Limit(rl, tooManyRequests))
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
			r.Post("/auth/refresh", h.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.secret, Unauthorized))

			r.Get("/doctors", h.ListDoctors)
			r.Get("/doctors/{id}/availability", h.Availability)

			r.Post("/patients", h.RegisterPatient)
			r.Get("/patients/me", h.MyPatientProfile)

			r.Post("/appointments", h.CreateAppointment)
			r.Get("/appointments", h.ListAppointments)
			r.Get("/appointments/{id}", h.GetAppointment)
			r.Patch("/appointments/{id}", h.UpdateAppointment)
			r.Delete("/appointments/{id}", h.DeleteAppointment)

			r.Post("/medical-records", h.CreateRecord)
			r.Get("/medical-records", h.ListRecords)
		})
	})

	return r
}

func tooManyRequests(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"ok":false,"error":"TOO_MANY_REQUESTS"}`))
}
