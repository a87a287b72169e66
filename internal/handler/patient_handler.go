package handler

import (
	"net/http"

	"github.com/google/uuid"

	"hospital-workflow-api/internal/apperr"
	"hospital-workflow-api/internal/booking"
	"hospital-workflow-api/internal/model"
	"hospital-workflow-api/internal/validate"
)

type patientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// RegisterPatient creates the patient profile linked one-to-one with the
// authenticated identity.
func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}

	var req patientRequest
	if err := decode(r, &req); err != nil {
		h.respondErr(w, err)
		return
	}

	var errs []validate.FieldError
	if req.Name == "" {
		errs = append(errs, validate.FieldError{Field: "name", Reason: "required"})
	}
	if req.Email == "" {
		errs = append(errs, validate.FieldError{Field: "email", Reason: "required"})
	}
	if req.Phone == "" {
		errs = append(errs, validate.FieldError{Field: "phone", Reason: "required"})
	}
	if len(errs) > 0 {
		h.respondErr(w, apperr.WithDetails(apperr.ValidationError, errs))
		return
	}

	p := &model.Patient{
		ID:    uuid.New().String(),
		UID:   id.UID,
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := h.store.CreatePatient(r.Context(), p); err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) MyPatientProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}

	p, err := h.store.PatientByUID(r.Context(), id.UID)
	if err == booking.ErrNotFound {
		h.respondErr(w, apperr.New(apperr.NotFound))
		return
	}
	if err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}
