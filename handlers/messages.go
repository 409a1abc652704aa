package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/lizet96/hms-backend/models"
	"github.com/lizet96/hms-backend/validation"
)

// MessageStore persistencia de mensajes
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	List(ctx context.Context) ([]models.Message, error)
}

// MessageHandler rutas de /api/v1/message
type MessageHandler struct {
	store MessageStore
	auth  Auth
}

func NewMessageHandler(store MessageStore, auth Auth) *MessageHandler {
	return &MessageHandler{store: store, auth: auth}
}

// Register monta las rutas en el grupo recibido
func (h *MessageHandler) Register(r fiber.Router) {
	r.Post("/send", h.Send)
	r.Get("/getall", h.auth.Admin, h.GetAll)
}

// Send guarda un mensaje de contacto
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req models.MessageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	msg := models.Message{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
	}
	if err := h.store.Create(c.UserContext(), &msg); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message Sent!",
	})
}

// GetAll lista los mensajes (solo admin)
func (h *MessageHandler) GetAll(c *fiber.Ctx) error {
	messages, err := h.store.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
	})
}
