package store

import (
	"context"

	"hospital-workflow-api/internal/model"
)

func (s *Store) CreateRecord(ctx context.Context, r *model.MedicalRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO medical_records (id, patient_id, doctor_id, diagnosis, notes, created_by)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, r.PatientID, r.DoctorID, r.Diagnosis, r.Notes, r.CreatedBy,
	)
	return err
}

func (s *Store) RecordsByPatient(ctx context.Context, patientID string) ([]model.MedicalRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, patient_id, doctor_id, diagnosis, notes, created_by, created_at, updated_at
		 FROM medical_records WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MedicalRecord
	for rows.Next() {
		var r model.MedicalRecord
		if err := rows.Scan(&r.ID, &r.PatientID, &r.DoctorID, &r.Diagnosis,
			&r.Notes, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
