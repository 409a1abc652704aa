package models

import (
	"time"
)

// Estados de una cita
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// DoctorName nombre del médico tal como lo escribió el paciente
type DoctorName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Appointment representa la tabla appointments en la base de datos
type Appointment struct {
	ID              int64      `json:"_id" db:"id"`
	FirstName       string     `json:"firstName" db:"first_name"`
	LastName        string     `json:"lastName" db:"last_name"`
	Email           string     `json:"email" db:"email"`
	Phone           string     `json:"phone" db:"phone"`
	NIC             string     `json:"nic" db:"nic"`
	DOB             time.Time  `json:"dob" db:"dob"`
	Gender          string     `json:"gender" db:"gender"`
	AppointmentDate string     `json:"appointment_date" db:"appointment_date"`
	Department      string     `json:"department" db:"department"`
	Doctor          DoctorName `json:"doctor"`
	HasVisited      bool       `json:"hasVisited" db:"has_visited"`
	Address         string     `json:"address" db:"address"`
	DoctorID        int64      `json:"doctorId" db:"doctor_id"`
	PatientID       int64      `json:"patientId" db:"patient_id"`
	Status          string     `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

// AppointmentRequest cuerpo de POST /post
type AppointmentRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=3"`
	LastName        string `json:"lastName" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,len=11,numeric"`
	NIC             string `json:"nic" validate:"required,len=13,numeric"`
	DOB             string `json:"dob" validate:"required"`
	Gender          string `json:"gender" validate:"required,oneof=Male Female"`
	AppointmentDate string `json:"appointment_date" validate:"required"`
	Department      string `json:"department" validate:"required"`
	DoctorFirstName string `json:"doctor_firstName" validate:"required"`
	DoctorLastName  string `json:"doctor_lastName" validate:"required"`
	HasVisited      bool   `json:"hasVisited"`
	Address         string `json:"address" validate:"required"`
}

// StatusUpdateRequest cuerpo de PUT /update/:id
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Accepted Rejected"`
}
