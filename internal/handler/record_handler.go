package handler

import (
	"net/http"

	"github.com/google/uuid"

	"hospital-workflow-api/internal/apperr"
	"hospital-workflow-api/internal/booking"
	"hospital-workflow-api/internal/model"
	"hospital-workflow-api/internal/validate"
)

type recordRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
}

// CreateRecord is staff-only: consultation notes are written by clinicians.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}
	if !id.IsStaff {
		failKind(w, apperr.NotFound)
		return
	}

	var req recordRequest
	if err := decode(r, &req); err != nil {
		h.respondErr(w, err)
		return
	}

	var errs []validate.FieldError
	if req.PatientID == "" {
		errs = append(errs, validate.FieldError{Field: "patientId", Reason: "required"})
	}
	if req.DoctorID == "" {
		errs = append(errs, validate.FieldError{Field: "doctorId", Reason: "required"})
	}
	if req.Diagnosis == "" {
		errs = append(errs, validate.FieldError{Field: "diagnosis", Reason: "required"})
	}
	if len(errs) > 0 {
		h.respondErr(w, apperr.WithDetails(apperr.ValidationError, errs))
		return
	}

	rec := &model.MedicalRecord{
		ID:        uuid.New().String(),
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Diagnosis: req.Diagnosis,
		Notes:     req.Notes,
		CreatedBy: id.UID,
	}
	if err := h.store.CreateRecord(r.Context(), rec); err != nil {
		h.respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, rec)
}

// ListRecords returns a patient's records. Staff may query any patient;
// other actors only their own linked profile.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := actor(r)
	if !ok {
		failKind(w, apperr.Unauthorized)
		return
	}

	patientID := r.URL.Query().Get("patientId")
	if !id.IsStaff {
		p, err := h.store.PatientByUID(r.Context(), id.UID)
		if err == booking.ErrNotFound || (err == nil && patientID != "" && patientID != p.ID) {
			failKind(w, apperr.NotFound)
			return
		}
		if err != nil {
			h.respondErr(w, err)
			return
		}
		patientID = p.ID
	}
	if patientID == "" {
		h.respondErr(w, apperr.WithDetails(apperr.ValidationError, []validate.FieldError{
			{Field: "patientId", Reason: "required"},
		}))
		return
	}

	recs, err := h.store.RecordsByPatient(r.Context(), patientID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	if recs == nil {
		recs = []model.MedicalRecord{}
	}
	respond(w, http.StatusOK, recs)
}
