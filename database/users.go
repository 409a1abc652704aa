package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lizet96/hms-backend/models"
)

const userColumns = `id, first_name, last_name, email, phone, nic, dob, gender, password, role,
	COALESCE(doctor_department, ''), COALESCE(doc_avatar_public_id, ''), COALESCE(doc_avatar_url, ''), created_at`

// UserStore acceso a la tabla users
type UserStore struct {
	db *DB
}

// NewUserStore crea el store sobre el manejador de conexión
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var avatarID, avatarURL string
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.NIC, &u.DOB,
		&u.Gender, &u.Password, &u.Role, &u.DoctorDepartment, &avatarID, &avatarURL, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if avatarURL != "" {
		u.DocAvatar = &models.Avatar{PublicID: avatarID, URL: avatarURL}
	}
	return &u, nil
}

// Create inserta el usuario y completa ID y CreatedAt
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	pool, err := s.db.Pool()
	if err != nil {
		return err
	}

	var avatarID, avatarURL *string
	if u.DocAvatar != nil {
		avatarID, avatarURL = &u.DocAvatar.PublicID, &u.DocAvatar.URL
	}
	var department *string
	if u.DoctorDepartment != "" {
		department = &u.DoctorDepartment
	}

	err = pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, phone, nic, dob, gender, password, role,
			doctor_department, doc_avatar_public_id, doc_avatar_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at`,
		u.FirstName, u.LastName, u.Email, u.Phone, u.NIC, u.DOB, u.Gender, u.Password, u.Role,
		department, avatarID, avatarURL).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail busca un usuario por email (incluye el hash de la contraseña)
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	pool, err := s.db.Pool()
	if err != nil {
		return nil, err
	}
	u, err := scanUser(pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email))
	return u, notFound(err)
}

// FindByID busca un usuario por su ID
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	pool, err := s.db.Pool()
	if err != nil {
		return nil, err
	}
	u, err := scanUser(pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	return u, notFound(err)
}

// ListByRole lista los usuarios de un rol, del más reciente al más antiguo
func (s *UserStore) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	pool, err := s.db.Pool()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE role = $1 ORDER BY created_at DESC", role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

// FindDoctors busca médicos por nombre, apellido y departamento
func (s *UserStore) FindDoctors(ctx context.Context, firstName, lastName, department string) ([]models.User, error) {
	pool, err := s.db.Pool()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		"SELECT "+userColumns+` FROM users
		 WHERE role = $1 AND first_name = $2 AND last_name = $3 AND doctor_department = $4`,
		models.RoleDoctor, firstName, lastName, department)
	if err != nil {
		return nil, fmt.Errorf("find doctors: %w", err)
	}
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	defer rows.Close()
	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
