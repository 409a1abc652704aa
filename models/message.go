package models

import (
	"time"
)

// Message mensaje de contacto enviado desde el sitio público
type Message struct {
	ID        int64     `json:"_id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MessageRequest cuerpo de POST /send
type MessageRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=3"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,min=3"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Phone     string `json:"phone" form:"phone" validate:"required,len=11,numeric"`
	Message   string `json:"message" form:"message" validate:"required,min=10"`
}
