package store

import (
	"context"

	"hospital-workflow-api/internal/model"
)

func (s *Store) CreatePatient(ctx context.Context, p *model.Patient) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO patients (id, uid, name, email, phone) VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.UID, p.Name, p.Email, p.Phone,
	)
	return err
}

func (s *Store) PatientByUID(ctx context.Context, uid string) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, uid, name, email, phone, created_at, updated_at
		 FROM patients WHERE uid = $1`, uid,
	).Scan(&p.ID, &p.UID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return p, nil
}
