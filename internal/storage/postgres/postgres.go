package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Djatila/studionailart-sub001/internal/models"
	"github.com/Djatila/studionailart-sub001/pkg/response"

	"github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### availability ####

func (s *Storage) ListAvailability(ctx context.Context, designerID string) ([]*models.AvailabilityRow, error) {
	const op = "storage.postgres.ListAvailability"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, designer_id, day_of_week, start_time, end_time, is_available, specific_date
		FROM availability
		WHERE designer_id=$1
		ORDER BY specific_date, start_time`,
		designerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var result []*models.AvailabilityRow

	for rows.Next() {
		var row models.AvailabilityRow

		err := rows.Scan(
			&row.ID,
			&row.DesignerID,
			&row.DayOfWeek,
			&row.StartTime,
			&row.EndTime,
			&row.IsAvailable,
			&row.SpecificDate,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) InsertAvailability(ctx context.Context, row *models.AvailabilityRow) (string, error) {
	const op = "storage.postgres.InsertAvailability"

	var id string

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO availability
		(designer_id, day_of_week, start_time, end_time, is_available, specific_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		row.DesignerID,
		row.DayOfWeek,
		row.StartTime,
		row.EndTime,
		row.IsAvailable,
		row.SpecificDate,
	).Scan(&id)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateAvailabilityFlag(ctx context.Context, id string, isAvailable bool) error {
	const op = "storage.postgres.UpdateAvailabilityFlag"

	res, err := s.db.ExecContext(ctx,
		`UPDATE availability SET is_available=$1 WHERE id=$2`, isAvailable, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteAvailability(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteAvailability"

	_, err := s.db.ExecContext(ctx, `DELETE FROM availability WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### appointments ####

func (s *Storage) ListAppointments(ctx context.Context, designerID string, date *string) ([]*models.Appointment, error) {
	const op = "storage.postgres.ListAppointments"

	query := `SELECT id, designer_id, client_name, client_phone, client_email, service, date, time, price, status
		FROM appointments
		WHERE designer_id=$1`
	args := []any{designerID}

	if date != nil {
		query += ` AND date=$2`
		args = append(args, *date)
	}

	query += ` ORDER BY date, time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var result []*models.Appointment

	for rows.Next() {
		var apt models.Appointment

		err := rows.Scan(
			&apt.ID,
			&apt.DesignerID,
			&apt.ClientName,
			&apt.ClientPhone,
			&apt.ClientEmail,
			&apt.Service,
			&apt.Date,
			&apt.Time,
			&apt.Price,
			&apt.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, &apt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) ListAppointmentsForDateAll(ctx context.Context, date string, statuses []string) ([]*models.Appointment, error) {
	const op = "storage.postgres.ListAppointmentsForDateAll"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, designer_id, client_name, client_phone, client_email, service, date, time, price, status
		FROM appointments
		WHERE date=$1 AND status = ANY($2)
		ORDER BY time`,
		date, pq.Array(statuses),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var result []*models.Appointment

	for rows.Next() {
		var apt models.Appointment

		err := rows.Scan(
			&apt.ID,
			&apt.DesignerID,
			&apt.ClientName,
			&apt.ClientPhone,
			&apt.ClientEmail,
			&apt.Service,
			&apt.Date,
			&apt.Time,
			&apt.Price,
			&apt.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, &apt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	const op = "storage.postgres.GetAppointment"

	var apt models.Appointment

	err := s.db.QueryRowContext(ctx,
		`SELECT id, designer_id, client_name, client_phone, client_email, service, date, time, price, status
		FROM appointments WHERE id=$1`, id).
		Scan(
			&apt.ID,
			&apt.DesignerID,
			&apt.ClientName,
			&apt.ClientPhone,
			&apt.ClientEmail,
			&apt.Service,
			&apt.Date,
			&apt.Time,
			&apt.Price,
			&apt.Status,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &apt, nil
}

func (s *Storage) InsertAppointment(ctx context.Context, apt *models.Appointment) error {
	const op = "storage.postgres.InsertAppointment"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments
		(id, designer_id, client_name, client_phone, client_email, service, date, time, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		apt.ID,
		apt.DesignerID,
		apt.ClientName,
		apt.ClientPhone,
		apt.ClientEmail,
		apt.Service,
		apt.Date,
		apt.Time,
		apt.Price,
		string(apt.Status),
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}
		if ok && sqlErr.Code == "23503" {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	const op = "storage.postgres.UpdateAppointmentStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE appointments SET status=$1 WHERE id=$2`, string(status), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### designers ####

func (s *Storage) ListDesigners(ctx context.Context) ([]*models.Designer, error) {
	const op = "storage.postgres.ListDesigners"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, COALESCE(pix_key, ''), is_active
		FROM nail_designers
		WHERE is_active=TRUE
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var result []*models.Designer

	for rows.Next() {
		var d models.Designer

		err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.PixKey, &d.IsActive)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) GetDesigner(ctx context.Context, id string) (*models.Designer, error) {
	const op = "storage.postgres.GetDesigner"

	var d models.Designer

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, COALESCE(pix_key, ''), is_active
		FROM nail_designers WHERE id=$1`, id).
		Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.PixKey, &d.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &d, nil
}

// #### services ####

func (s *Storage) ListServices(ctx context.Context, designerID string) ([]*models.Service, error) {
	const op = "storage.postgres.ListServices"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, designer_id, name, price, duration_minutes
		FROM services
		WHERE designer_id=$1
		ORDER BY name`,
		designerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var result []*models.Service

	for rows.Next() {
		var svc models.Service

		err := rows.Scan(&svc.ID, &svc.DesignerID, &svc.Name, &svc.Price, &svc.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, &svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Storage) InsertService(ctx context.Context, svc *models.Service) error {
	const op = "storage.postgres.InsertService"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO services (id, designer_id, name, price, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)`,
		svc.ID,
		svc.DesignerID,
		svc.Name,
		svc.Price,
		svc.DurationMinutes,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23503" {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteService(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteService"

	res, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}
