// Package booking is the conflict-checked appointment engine: it validates
// proposed bookings against business rules (no past bookings, no
// double-booking per doctor and date) and commits the state transitions
// create, reschedule and cancel.
package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hospital-workflow-api/internal/apperr"
	"hospital-workflow-api/internal/auth"
	"hospital-workflow-api/internal/availability"
	"hospital-workflow-api/internal/model"
	"hospital-workflow-api/internal/timerange"
	"hospital-workflow-api/internal/validate"
)

type Service struct {
	appts   AppointmentStore
	doctors DoctorStore
	locks   *slotLocks
	now     func() time.Time
}

func NewService(appts AppointmentStore, doctors DoctorStore) *Service {
	return &Service{
		appts:   appts,
		doctors: doctors,
		locks:   newSlotLocks(),
		now:     time.Now,
	}
}

// Page is the List result envelope.
type Page struct {
	Items []model.Appointment `json:"items"`
	Page  int                 `json:"page"`
	Total int                 `json:"total"`
}

// Create books a new appointment for the actor. The slot lock covers the
// conflict scan and the insert so concurrent requests for the same doctor
// and date serialize.
func (s *Service) Create(ctx context.Context, in validate.AppointmentCreate, actor auth.Identity) (*model.Appointment, error) {
	if r := in.Validate(); !r.OK() {
		return nil, apperr.WithDetails(apperr.ValidationError, r.Errors)
	}
	if _, err := uuid.Parse(in.DoctorID); err != nil {
		return nil, apperr.New(apperr.InvalidID)
	}
	if _, err := uuid.Parse(in.PatientID); err != nil {
		return nil, apperr.New(apperr.InvalidID)
	}

	if _, err := s.doctors.GetDoctor(ctx, in.DoctorID); err != nil {
		if err == ErrNotFound {
			return nil, apperr.New(apperr.NotFound)
		}
		return nil, apperr.From(err)
	}

	rng, err := timerange.Build(in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput)
	}
	if rng.Start.Before(s.now()) {
		return nil, apperr.New(apperr.PastDate)
	}

	unlock := s.locks.lock(in.DoctorID, in.Date)
	defer unlock()

	if err := s.checkConflicts(ctx, in.DoctorID, in.Date, "", rng); err != nil {
		return nil, err
	}

	now := s.now()
	appt := &model.Appointment{
		ID:        uuid.New().String(),
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Reason:    in.Reason,
		Status:    model.StatusBooked,
		CreatedBy: actor.UID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.appts.Create(ctx, appt); err != nil {
		return nil, apperr.From(err)
	}
	return appt, nil
}

// List returns a page of appointments sorted by (date, startTime).
// Non-staff actors only see appointments they created.
func (s *Service) List(ctx context.Context, f validate.ListFilters, actor auth.Identity) (*Page, error) {
	if r := f.Validate(); !r.OK() {
		return nil, apperr.WithDetails(apperr.ValidationError, r.Errors)
	}

	filter := ListFilter{
		DoctorID:  f.DoctorID,
		PatientID: f.PatientID,
		Status:    f.Status,
		DateFrom:  f.DateFrom,
		DateTo:    f.DateTo,
		Offset:    (f.Page - 1) * f.Limit,
		Limit:     f.Limit,
	}
	if !actor.IsStaff {
		filter.CreatedBy = actor.UID
	}

	items, total, err := s.appts.List(ctx, filter)
	if err != nil {
		return nil, apperr.From(err)
	}
	if items == nil {
		items = []model.Appointment{}
	}
	return &Page{Items: items, Page: f.Page, Total: total}, nil
}

// Get fetches one appointment. Missing records and records the actor may
// not see are reported identically as NOT_FOUND.
func (s *Service) Get(ctx context.Context, id string, actor auth.Identity) (*model.Appointment, error) {
	return s.fetch(ctx, id, actor)
}

// Update merges the provided fields over the current record, re-running
// the conflict scan (excluding the record itself) whenever the scheduled
// range changes. A time change defaults the status to RESCHEDULED unless
// the update names another status.
func (s *Service) Update(ctx context.Context, id string, in validate.AppointmentUpdate, actor auth.Identity) (*model.Appointment, error) {
	if r := in.Validate(); !r.OK() {
		return nil, apperr.WithDetails(apperr.ValidationError, r.Errors)
	}

	appt, err := s.fetch(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	nextDate := or(in.Date, appt.Date)
	nextStart := or(in.StartTime, appt.StartTime)
	nextEnd := or(in.EndTime, appt.EndTime)
	if nextEnd <= nextStart {
		return nil, apperr.WithDetails(apperr.ValidationError, []validate.FieldError{
			{Field: "endTime", Reason: "must be after startTime"},
		})
	}

	rng, err := timerange.Build(nextDate, nextStart, nextEnd)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput)
	}
	if rng.Start.Before(s.now()) {
		return nil, apperr.New(apperr.PastDate)
	}

	nextStatus := or(in.Status, appt.Status)

	if in.HasTimeChange() {
		unlock := s.locks.lock(appt.DoctorID, nextDate)
		defer unlock()

		if err := s.checkConflicts(ctx, appt.DoctorID, nextDate, appt.ID, rng); err != nil {
			return nil, err
		}
		appt.Date = nextDate
		appt.StartTime = nextStart
		appt.EndTime = nextEnd
		if in.Status == "" {
			nextStatus = model.StatusRescheduled
		}
	}

	if in.Reason != "" {
		appt.Reason = in.Reason
	}
	if nextStatus == model.StatusCancelled && appt.Status != model.StatusCancelled {
		t := s.now()
		appt.CancelledAt = &t
	}
	appt.Status = nextStatus
	appt.UpdatedAt = s.now()

	if err := s.appts.Update(ctx, appt); err != nil {
		return nil, apperr.From(err)
	}
	return appt, nil
}

// Cancel soft-deletes: the record keeps its row, moves to CANCELLED and is
// stamped with cancelledAt. Cancelling an already cancelled appointment is
// a no-op and does not re-stamp.
func (s *Service) Cancel(ctx context.Context, id string, actor auth.Identity) (*model.Appointment, error) {
	appt, err := s.fetch(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if appt.Status == model.StatusCancelled {
		return appt, nil
	}

	now := s.now()
	appt.Status = model.StatusCancelled
	appt.CancelledAt = &now
	appt.UpdatedAt = now

	if err := s.appts.Update(ctx, appt); err != nil {
		return nil, apperr.From(err)
	}
	return appt, nil
}

// Availability lists the free "HH:MM" start times for a doctor on a date.
func (s *Service) Availability(ctx context.Context, doctorID, date string) ([]string, error) {
	if !validate.IsISODate(date) {
		return nil, apperr.New(apperr.InvalidDate)
	}
	if _, err := uuid.Parse(doctorID); err != nil {
		return nil, apperr.New(apperr.InvalidDoctor)
	}

	doc, err := s.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		if err == ErrNotFound {
			return nil, apperr.New(apperr.NotFound)
		}
		return nil, apperr.From(err)
	}

	booked, err := s.appts.ForDoctorDate(ctx, doctorID, date, "")
	if err != nil {
		return nil, apperr.From(err)
	}

	slots, err := availability.Slots(doc, date, booked)
	if err != nil {
		return nil, apperr.From(err)
	}
	return slots, nil
}

func (s *Service) fetch(ctx context.Context, id string, actor auth.Identity) (*model.Appointment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.New(apperr.InvalidID)
	}
	appt, err := s.appts.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return nil, apperr.New(apperr.NotFound)
		}
		return nil, apperr.From(err)
	}
	// 404 instead of 403 so existence is not leaked
	if !actor.IsStaff && appt.CreatedBy != actor.UID {
		return nil, apperr.New(apperr.NotFound)
	}
	return appt, nil
}

func (s *Service) checkConflicts(ctx context.Context, doctorID, date, excludeID string, rng timerange.Range) error {
	existing, err := s.appts.ForDoctorDate(ctx, doctorID, date, excludeID)
	if err != nil {
		return apperr.From(err)
	}
	for _, other := range existing {
		taken, err := timerange.Build(other.Date, other.StartTime, other.EndTime)
		if err != nil {
			return apperr.From(err)
		}
		if timerange.Overlaps(rng.Start, rng.End, taken.Start, taken.End) {
			return apperr.New(apperr.ConflictSlot)
		}
	}
	return nil
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
