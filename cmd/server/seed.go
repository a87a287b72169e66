package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hospital-workflow-api/internal/model"
	"hospital-workflow-api/internal/store"
)

var weekdayHours = []model.WorkingBlock{
	{Day: "monday", StartTime: "09:00", EndTime: "17:00"},
	{Day: "tuesday", StartTime: "09:00", EndTime: "17:00"},
	{Day: "wednesday", StartTime: "09:00", EndTime: "17:00"},
	{Day: "thursday", StartTime: "09:00", EndTime: "17:00"},
	{Day: "friday", StartTime: "09:00", EndTime: "13:00"},
}

// seedDoctors populates an empty doctors table so a fresh deployment has
// bookable staff.
func seedDoctors(ctx context.Context, st *store.Store, log zerolog.Logger) error {
	n, err := st.CountDoctors(ctx)
	if err != nil || n > 0 {
		return err
	}

	seed := []model.Doctor{
		{Name: "Dr. A. Perera", Specialty: "Cardiologist", Email: "a.perera@hospital.com"},
		{Name: "Dr. S. Fernando", Specialty: "Pediatrician", Email: "s.fernando@hospital.com"},
		{Name: "Dr. K. De Silva", Specialty: "Dermatologist", Email: "k.desilva@hospital.com"},
		{Name: "Dr. N. Bandara", Specialty: "Neurologist", Email: "n.bandara@hospital.com"},
		{Name: "Dr. D. Rathnayake", Specialty: "General Practitioner", Email: "d.rathnayake@hospital.com"},
		{Name: "Dr. G. Mendis", Specialty: "Ophthalmologist", Email: "g.mendis@hospital.com"},
	}
	for i := range seed {
		seed[i].ID = uuid.New().String()
		seed[i].WorkingHours = weekdayHours
		seed[i].OffDays = []string{"saturday", "sunday"}
		seed[i].SlotsPerHour = 4
		if err := st.CreateDoctor(ctx, &seed[i]); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(seed)).Msg("seeded doctors")
	return nil
}
