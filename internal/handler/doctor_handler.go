package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type doctorSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.ListDoctors(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	out := make([]doctorSummary, len(docs))
	for i, d := range docs {
		out[i] = doctorSummary{ID: d.ID, Name: d.Name, Specialty: d.Specialty}
	}
	respond(w, http.StatusOK, out)
}

// Availability returns the free start-times for one doctor on ?date=.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	slots, err := h.booking.Availability(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("date"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string][]string{"slots": slots})
}
