package booking

import (
	"context"
	"errors"

	"hospital-workflow-api/internal/model"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// ListFilter narrows an appointment listing. Zero values mean "any".
type ListFilter struct {
	DoctorID  string
	PatientID string
	Status    string
	DateFrom  string
	DateTo    string
	CreatedBy string
	Offset    int
	Limit     int
}

// AppointmentStore is the persistence surface the engine needs. The pgx
// implementation lives in internal/store; tests use an in-memory fake.
type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) error
	// List returns a page sorted by (date, startTime) ascending plus the
	// total count of matching rows.
	List(ctx context.Context, f ListFilter) ([]model.Appointment, int, error)
	// ForDoctorDate returns the non-CANCELLED appointments for a doctor on
	// a date, excluding excludeID when non-empty.
	ForDoctorDate(ctx context.Context, doctorID, date, excludeID string) ([]model.Appointment, error)
}

type DoctorStore interface {
	GetDoctor(ctx context.Context, id string) (*model.Doctor, error)
}
