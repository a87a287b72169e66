// Package validate performs structural and semantic validation of
// appointment payloads before they reach the booking engine.
package validate

import (
	"regexp"
	"strings"

	"hospital-workflow-api/internal/model"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

const maxReasonLen = 200

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Result is a tagged validation outcome: empty Errors means the payload
// passed.
type Result struct {
	Errors []FieldError
}

func (r *Result) fail(field, reason string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Reason: reason})
}

func (r Result) OK() bool { return len(r.Errors) == 0 }

func IsISODate(s string) bool { return dateRe.MatchString(s) }

func IsHHMM(s string) bool { return timeRe.MatchString(s) }

// AppointmentCreate is the payload for booking a new appointment.
type AppointmentCreate struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
}

func (in *AppointmentCreate) Validate() Result {
	var r Result
	if in.PatientID == "" {
		r.fail("patientId", "required")
	}
	if in.DoctorID == "" {
		r.fail("doctorId", "required")
	}
	checkDate(&r, "date", in.Date, true)
	checkTime(&r, "startTime", in.StartTime, true)
	checkTime(&r, "endTime", in.EndTime, true)
	if IsHHMM(in.StartTime) && IsHHMM(in.EndTime) && in.EndTime <= in.StartTime {
		r.fail("endTime", "must be after startTime")
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		r.fail("reason", "required")
	} else if len(in.Reason) > maxReasonLen {
		r.fail("reason", "too long")
	}
	return r
}

// AppointmentUpdate is a partial payload; empty fields are left untouched.
type AppointmentUpdate struct {
	Date      string `json:"date,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status,omitempty"`
}

// HasTimeChange reports whether the update touches the scheduled range and
// therefore requires a fresh conflict scan.
func (in *AppointmentUpdate) HasTimeChange() bool {
	return in.Date != "" || in.StartTime != "" || in.EndTime != ""
}

var validStatuses = map[string]bool{
	model.StatusBooked:      true,
	model.StatusRescheduled: true,
	model.StatusCancelled:   true,
	model.StatusCompleted:   true,
}

func (in *AppointmentUpdate) Validate() Result {
	var r Result
	if in.Date == "" && in.StartTime == "" && in.EndTime == "" && in.Reason == "" && in.Status == "" {
		r.fail("_", "at least one field required")
		return r
	}
	checkDate(&r, "date", in.Date, false)
	checkTime(&r, "startTime", in.StartTime, false)
	checkTime(&r, "endTime", in.EndTime, false)
	if in.Reason != "" {
		in.Reason = strings.TrimSpace(in.Reason)
		if in.Reason == "" {
			r.fail("reason", "blank")
		} else if len(in.Reason) > maxReasonLen {
			r.fail("reason", "too long")
		}
	}
	if in.Status != "" && !validStatuses[in.Status] {
		r.fail("status", "unknown status")
	}
	return r
}

// ListFilters are the recognized query parameters for listing appointments.
type ListFilters struct {
	DoctorID  string
	PatientID string
	Status    string
	DateFrom  string
	DateTo    string
	Page      int
	Limit     int
}

func (in *ListFilters) Validate() Result {
	var r Result
	checkDate(&r, "dateFrom", in.DateFrom, false)
	checkDate(&r, "dateTo", in.DateTo, false)
	if in.Status != "" && !validStatuses[in.Status] {
		r.fail("status", "unknown status")
	}
	if in.Page < 1 {
		r.fail("page", "must be >= 1")
	}
	if in.Limit < 1 || in.Limit > 100 {
		r.fail("limit", "must be 1-100")
	}
	return r
}

func checkDate(r *Result, field, value string, required bool) {
	if value == "" {
		if required {
			r.fail(field, "required")
		}
		return
	}
	if !IsISODate(value) {
		r.fail(field, "expected YYYY-MM-DD")
	}
}

func checkTime(r *Result, field, value string, required bool) {
	if value == "" {
		if required {
			r.fail(field, "required")
		}
		return
	}
	if !IsHHMM(value) {
		r.fail(field, "expected HH:MM")
	}
}
