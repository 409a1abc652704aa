package database

import (
	"context"
	"fmt"

	"github.com/lizet96/hms-backend/models"
)

// MessageStore acceso a la tabla messages
type MessageStore struct {
	db *DB
}

func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// Create inserta el mensaje y completa ID y CreatedAt
func (s *MessageStore) Create(ctx context.Context, m *models.Message) error {
	pool, err := s.db.Pool()
	if err != nil {
		return err
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO messages (first_name, last_name, email, phone, message)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		m.FirstName, m.LastName, m.Email, m.Phone, m.Message).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// List devuelve todos los mensajes
func (s *MessageStore) List(ctx context.Context) ([]models.Message, error) {
	pool, err := s.db.Pool()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		`SELECT id, first_name, last_name, email, phone, message, created_at
		 FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
