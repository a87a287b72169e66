package store

import (
	"context"
	"encoding/json"

	"hospital-workflow-api/internal/model"
)

func (s *Store) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	hours, err := json.Marshal(d.WorkingHours)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO doctors (id, name, specialty, email, working_hours, off_days, slots_per_hour)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.Name, d.Specialty, d.Email, hours, d.OffDays, d.SlotsPerHour,
	)
	return err
}

func (s *Store) GetDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	d := &model.Doctor{}
	var hours []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, specialty, email, working_hours, off_days, slots_per_hour,
		        created_at, updated_at
		 FROM doctors WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Specialty, &d.Email, &hours, &d.OffDays,
		&d.SlotsPerHour, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &d.WorkingHours); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *Store) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, specialty, email, working_hours, off_days, slots_per_hour,
		        created_at, updated_at
		 FROM doctors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Doctor
	for rows.Next() {
		var d model.Doctor
		var hours []byte
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.Email, &hours,
			&d.OffDays, &d.SlotsPerHour, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if len(hours) > 0 {
			if err := json.Unmarshal(hours, &d.WorkingHours); err != nil {
				return nil, err
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CountDoctors(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&n)
	return n, err
}
