package model

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Staff        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkingBlock is a doctor's recurring availability window for one weekday.
// Times are zero-padded 24h "HH:MM" strings.
type WorkingBlock struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Doctor struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Specialty    string         `json:"specialty"`
	Email        string         `json:"email,omitempty"`
	WorkingHours []WorkingBlock `json:"workingHours"`
	OffDays      []string       `json:"offDays"`
	SlotsPerHour int            `json:"slotsPerHour,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type Patient struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Appointment statuses. CANCELLED is terminal; cancelled records are
// retained and excluded from conflict scans.
const (
	StatusBooked      = "BOOKED"
	StatusRescheduled = "RESCHEDULED"
	StatusCancelled   = "CANCELLED"
	StatusCompleted   = "COMPLETED"
)

// Appointment keeps date and times as calendar strings ("2006-01-02",
// "HH:MM") with no timezone component; only same-day ordering matters.
type Appointment struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patientId"`
	DoctorID    string     `json:"doctorId"`
	Date        string     `json:"date"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"createdBy"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type MedicalRecord struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	Diagnosis string    `json:"diagnosis"`
	Notes     string    `json:"notes"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
