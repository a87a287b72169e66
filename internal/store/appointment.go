package store

import (
	"context"
	"fmt"

	"hospital-workflow-api/internal/booking"
	"hospital-workflow-api/internal/model"
)

const apptColumns = `id, patient_id, doctor_id, date, start_time, end_time,
	reason, status, created_by, cancelled_at, created_at, updated_at`

func (s *Store) Create(ctx context.Context, a *model.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments
		   (id, patient_id, doctor_id, date, start_time, end_time, reason, status, created_by)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.StartTime, a.EndTime,
		a.Reason, a.Status, a.CreatedBy,
	)
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+apptColumns+` FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.StartTime, &a.EndTime,
		&a.Reason, &a.Status, &a.CreatedBy, &a.CancelledAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return a, nil
}

func (s *Store) Update(ctx context.Context, a *model.Appointment) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments
		 SET date=$1, start_time=$2, end_time=$3, reason=$4, status=$5,
		     cancelled_at=$6, updated_at=NOW()
		 WHERE id=$7`,
		a.Date, a.StartTime, a.EndTime, a.Reason, a.Status, a.CancelledAt, a.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// List applies the filter twice: once for the total count, once for the
// sorted page.
func (s *Store) List(ctx context.Context, f booking.ListFilter) ([]model.Appointment, int, error) {
	where, args := buildFilter(f)

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(
		`SELECT %s FROM appointments%s ORDER BY date, start_time OFFSET $%d LIMIT $%d`,
		apptColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, f.Offset, f.Limit)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.StartTime, &a.EndTime,
			&a.Reason, &a.Status, &a.CreatedBy, &a.CancelledAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func buildFilter(f booking.ListFilter) (string, []any) {
	where := ""
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}

	if f.DoctorID != "" {
		add("doctor_id = $%d", f.DoctorID)
	}
	if f.PatientID != "" {
		add("patient_id = $%d", f.PatientID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.CreatedBy != "" {
		add("created_by = $%d", f.CreatedBy)
	}
	if f.DateFrom != "" {
		add("date >= $%d", f.DateFrom)
	}
	if f.DateTo != "" {
		add("date <= $%d", f.DateTo)
	}
	return where, args
}

func (s *Store) ForDoctorDate(ctx context.Context, doctorID, date, excludeID string) ([]model.Appointment, error) {
	q := `SELECT ` + apptColumns + `
	      FROM appointments
	      WHERE doctor_id = $1 AND date = $2 AND status != 'CANCELLED'`
	args := []any{doctorID, date}
	if excludeID != "" {
		q += ` AND id != $3`
		args = append(args, excludeID)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.StartTime, &a.EndTime,
			&a.Reason, &a.Status, &a.CreatedBy, &a.CancelledAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
