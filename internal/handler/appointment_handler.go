package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hospital-workflow-api/internal/apperr"
	"hospital-workflow-api/internal/auth"
	"hospital-workflow-api/internal/middleware"
	"hospital-workflow-api/internal/validate"
)

func actor(r *http.Request) (auth.Identity, bool) {
	return middleware.Identity(r.Context())
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}

	var in validate.AppointmentCreate
	if err := decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	appt, err := h.booking.Create(r.Context(), in, id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, appt)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}

	q := r.URL.Query()
	f := validate.ListFilters{
		DoctorID:  q.Get("doctorId"),
		PatientID: q.Get("patientId"),
		Status:    q.Get("status"),
		DateFrom:  q.Get("dateFrom"),
		DateTo:    q.Get("dateTo"),
		Page:      intParam(q.Get("page"), 1),
		Limit:     intParam(q.Get("limit"), 20),
	}

	page, err := h.booking.List(r.Context(), f, id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, page)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}

	appt, err := h.booking.Get(r.Context(), chi.URLParam(r, "id"), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, appt)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}

	var in validate.AppointmentUpdate
	if err := decode(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	appt, err := h.booking.Update(r.Context(), chi.URLParam(r, "id"), in, id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, appt)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}

	appt, err := h.booking.Cancel(r.Context(), chi.URLParam(r, "id"), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, appt)
}

func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1 // fails validation with a field error
	}
	return n
}
