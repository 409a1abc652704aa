package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lizet96/hms-backend/models"
)

const appointmentColumns = `id, first_name, last_name, email, phone, nic, dob, gender, appointment_date,
	department, doctor_first_name, doctor_last_name, has_visited, address, doctor_id, patient_id, status, created_at`

// AppointmentStore acceso a la tabla appointments
type AppointmentStore struct {
	db *DB
}

func NewAppointmentStore(db *DB) *AppointmentStore {
	return &AppointmentStore{db: db}
}

func scanAppointment(row pgx.Row) (*models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.NIC, &a.DOB, &a.Gender,
		&a.AppointmentDate, &a.Department, &a.Doctor.FirstName, &a.Doctor.LastName, &a.HasVisited,
		&a.Address, &a.DoctorID, &a.PatientID, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserta la cita y completa ID, Status y CreatedAt
func (s *AppointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	pool, err := s.db.Pool()
	if err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO appointments (first_name, last_name, email, phone, nic, dob, gender, appointment_date,
			department, doctor_first_name, doctor_last_name, has_visited, address, doctor_id, patient_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at`,
		a.FirstName, a.LastName, a.Email, a.Phone, a.NIC, a.DOB, a.Gender, a.AppointmentDate,
		a.Department, a.Doctor.FirstName, a.Doctor.LastName, a.HasVisited, a.Address,
		a.DoctorID, a.PatientID, a.Status).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// List devuelve todas las citas
func (s *AppointmentStore) List(ctx context.Context) ([]models.Appointment, error) {
	pool, err := s.db.Pool()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, "SELECT "+appointmentColumns+" FROM appointments ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}

// UpdateStatus cambia el estado de la cita y devuelve la versión actualizada
func (s *AppointmentStore) UpdateStatus(ctx context.Context, id int64, status string) (*models.Appointment, error) {
	pool, err := s.db.Pool()
	if err != nil {
		return nil, err
	}
	a, err := scanAppointment(pool.QueryRow(ctx,
		"UPDATE appointments SET status = $1 WHERE id = $2 RETURNING "+appointmentColumns, status, id))
	return a, notFound(err)
}

// Delete elimina la cita; ErrNotFound si no existía
func (s *AppointmentStore) Delete(ctx context.Context, id int64) error {
	pool, err := s.db.Pool()
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, "DELETE FROM appointments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
