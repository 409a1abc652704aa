package models

import (
	"time"
)

// Roles de usuario
const (
	RolePatient = "Patient"
	RoleDoctor  = "Doctor"
	RoleAdmin   = "Admin"
)

// Avatar referencia la imagen de perfil de un médico en el almacenamiento de objetos
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// User representa la tabla users en la base de datos
type User struct {
	ID               int64     `json:"_id" db:"id"`
	FirstName        string    `json:"firstName" db:"first_name"`
	LastName         string    `json:"lastName" db:"last_name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	NIC              string    `json:"nic" db:"nic"`
	DOB              time.Time `json:"dob" db:"dob"`
	Gender           string    `json:"gender" db:"gender"`
	Password         string    `json:"-" db:"password"`
	Role             string    `json:"role" db:"role"`
	DoctorDepartment string    `json:"doctorDepartment,omitempty" db:"doctor_department"`
	DocAvatar        *Avatar   `json:"docAvatar,omitempty"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

// FullName nombre y apellido separados por un espacio
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// PersonRequest campos comunes a pacientes, administradores y médicos
type PersonRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,min=3"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone" form:"phone" validate:"required,len=11,numeric"`
	NIC       string `json:"nic" form:"nic" validate:"required,len=13,numeric"`
	DOB       string `json:"dob" form:"dob" validate:"required"`
	Gender    string `json:"gender" form:"gender" validate:"required,oneof=Male Female"`
	Password  string `json:"password" form:"password" validate:"required,min=8"`
}

// DoctorRequest solicitud multipart para registrar un médico
type DoctorRequest struct {
	FirstName        string `json:"firstName" form:"firstName" validate:"required,min=3"`
	LastName         string `json:"lastName" form:"lastName" validate:"required,min=3"`
	Email            string `json:"email" form:"email" validate:"required,email"`
	Phone            string `json:"phone" form:"phone" validate:"required,len=11,numeric"`
	NIC              string `json:"nic" form:"nic" validate:"required,len=13,numeric"`
	DOB              string `json:"dob" form:"dob" validate:"required"`
	Gender           string `json:"gender" form:"gender" validate:"required,oneof=Male Female"`
	Password         string `json:"password" form:"password" validate:"required,min=8"`
	DoctorDepartment string `json:"doctorDepartment" form:"doctorDepartment" validate:"required"`
}

// Person devuelve los datos comunes de la solicitud
func (r DoctorRequest) Person() PersonRequest {
	return PersonRequest{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		NIC:       r.NIC,
		DOB:       r.DOB,
		Gender:    r.Gender,
		Password:  r.Password,
	}
}

// LoginRequest representa la solicitud de login
type LoginRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=Patient Doctor Admin"`
}
