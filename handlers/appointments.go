package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lizet96/hms-backend/database"
	"github.com/lizet96/hms-backend/middleware"
	"github.com/lizet96/hms-backend/models"
	"github.com/lizet96/hms-backend/validation"
)

// AppointmentStore persistencia de citas
type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	List(ctx context.Context) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Appointment, error)
	Delete(ctx context.Context, id int64) error
}

// DoctorFinder busca médicos por nombre y departamento
type DoctorFinder interface {
	FindDoctors(ctx context.Context, firstName, lastName, department string) ([]models.User, error)
}

// AppointmentHandler rutas de /api/v1/appointment
type AppointmentHandler struct {
	appointments AppointmentStore
	doctors      DoctorFinder
	auth         Auth
}

func NewAppointmentHandler(appointments AppointmentStore, doctors DoctorFinder, auth Auth) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, doctors: doctors, auth: auth}
}

// Register monta las rutas en el grupo recibido
func (h *AppointmentHandler) Register(r fiber.Router) {
	r.Post("/post", h.auth.Patient, h.Post)
	r.Get("/getall", h.auth.Admin, h.GetAll)
	r.Put("/update/:id", h.auth.Admin, h.UpdateStatus)
	r.Delete("/delete/:id", h.auth.Admin, h.Delete)
}

// Post agenda una cita para el paciente de la sesión
func (h *AppointmentHandler) Post(c *fiber.Ctx) error {
	var req models.AppointmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	doctors, err := h.doctors.FindDoctors(ctx, req.DoctorFirstName, req.DoctorLastName, req.Department)
	if err != nil {
		return err
	}
	switch {
	case len(doctors) == 0:
		return fiber.NewError(fiber.StatusNotFound, "Doctor not found")
	case len(doctors) > 1:
		return fiber.NewError(fiber.StatusBadRequest, "Doctors Conflict! Please Contact Through Email Or Phone!")
	}

	patient := middleware.CurrentUser(c)
	if patient == nil {
		return fiber.NewError(fiber.StatusBadRequest, "User is not authenticated!")
	}

	appointment := models.Appointment{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		NIC:             req.NIC,
		DOB:             dob,
		Gender:          req.Gender,
		AppointmentDate: req.AppointmentDate,
		Department:      req.Department,
		Doctor:          models.DoctorName{FirstName: req.DoctorFirstName, LastName: req.DoctorLastName},
		HasVisited:      req.HasVisited,
		Address:         req.Address,
		DoctorID:        doctors[0].ID,
		PatientID:       patient.ID,
	}
	if err := h.appointments.Create(ctx, &appointment); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"appointment": appointment,
		"message":     "Appointment Send!",
	})
}

// GetAll lista todas las citas (solo admin)
func (h *AppointmentHandler) GetAll(c *fiber.Ctx) error {
	appointments, err := h.appointments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"appointments": appointments,
	})
}

// UpdateStatus cambia el estado de una cita
func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req models.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	appointment, err := h.appointments.UpdateStatus(c.UserContext(), id, req.Status)
	if errors.Is(err, database.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Appointment not found!")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Appointment Status Updated!",
		"appointment": appointment,
	})
}

// Delete elimina una cita
func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	err = h.appointments.Delete(c.UserContext(), id)
	if errors.Is(err, database.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Appointment not found!")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Appointment Deleted!",
	})
}
