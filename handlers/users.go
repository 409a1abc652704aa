package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/lizet96/hms-backend/database"
	"github.com/lizet96/hms-backend/logging"
	"github.com/lizet96/hms-backend/middleware"
	"github.com/lizet96/hms-backend/models"
	"github.com/lizet96/hms-backend/validation"
)

// bcryptCost costo del hash de contraseñas; los tests lo bajan
var bcryptCost = bcrypt.DefaultCost

// Formatos aceptados para el avatar de los médicos
var avatarFormats = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// UserStore persistencia de usuarios
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
}

// AvatarUploader sube el avatar ya guardado en disco al almacenamiento de objetos
type AvatarUploader interface {
	PutAvatar(ctx context.Context, localPath, originalName, contentType string) (*models.Avatar, error)
}

// UserHandler rutas de /api/v1/user
type UserHandler struct {
	users   UserStore
	avatars AvatarUploader
	auth    Auth
	limiter fiber.Handler
}

// NewUserHandler crea el handler; avatars puede ser nil si no hay almacenamiento configurado
func NewUserHandler(users UserStore, avatars AvatarUploader, auth Auth) *UserHandler {
	return &UserHandler{
		users:   users,
		avatars: avatars,
		auth:    auth,
		limiter: middleware.AuthRateLimiter(),
	}
}

// Register monta las rutas en el grupo recibido
func (h *UserHandler) Register(r fiber.Router) {
	r.Post("/patient/register", h.limiter, h.RegisterPatient)
	r.Post("/login", h.limiter, h.Login)
	r.Post("/admin/addnew", h.auth.Admin, h.AddNewAdmin)
	r.Post("/doctor/addnew", h.auth.Admin, h.AddNewDoctor)
	r.Get("/doctors", h.GetAllDoctors)
	r.Get("/admin/me", h.auth.Admin, h.GetUserDetails)
	r.Get("/patient/me", h.auth.Patient, h.GetUserDetails)
	r.Get("/admin/logout", h.auth.Admin, h.logout(middleware.AdminCookie, "Admin Logged Out Successfully."))
	r.Get("/patient/logout", h.auth.Patient, h.logout(middleware.PatientCookie, "Patient Logged Out Successfully."))
}

// RegisterPatient registra un paciente y abre su sesión
func (h *UserHandler) RegisterPatient(c *fiber.Ctx) error {
	var req models.PersonRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	user, err := h.createUser(c.UserContext(), req, models.RolePatient, "", nil, "User already Registered!")
	if err != nil {
		return err
	}
	return h.sendToken(c, user, "User Registered!", fiber.StatusOK)
}

// Login autentica al usuario y guarda el token en la cookie de su rol
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return fiber.NewError(fiber.StatusBadRequest, "Password & Confirm Password Do Not Match!")
	}

	user, err := h.users.FindByEmail(c.UserContext(), req.Email)
	if errors.Is(err, database.ErrNotFound) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid Email Or Password!")
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid Email Or Password!")
	}
	if req.Role != user.Role {
		return fiber.NewError(fiber.StatusBadRequest, "User Not Found With This Role!")
	}

	return h.sendToken(c, user, "Login Successfully!", fiber.StatusCreated)
}

// AddNewAdmin registra otro administrador (solo admin)
func (h *UserHandler) AddNewAdmin(c *fiber.Ctx) error {
	var req models.PersonRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	admin, err := h.createUser(c.UserContext(), req, models.RoleAdmin, "", nil, "Admin With This Email Already Exists!")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "New Admin Registered",
		"admin":   admin,
	})
}

// AddNewDoctor registra un médico con su avatar (solo admin, multipart)
func (h *UserHandler) AddNewDoctor(c *fiber.Ctx) error {
	file, ok := middleware.File(c, "docAvatar")
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Doctor Avatar Required!")
	}
	if !avatarFormats[file.MimeType] {
		return fiber.NewError(fiber.StatusBadRequest, "File Format Not Supported!")
	}

	var req models.DoctorRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	ctx := c.UserContext()
	if _, err := h.users.FindByEmail(ctx, req.Email); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Doctor With This Email Already Exists!")
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	if h.avatars == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Avatar storage is not configured")
	}
	avatar, err := h.avatars.PutAvatar(ctx, file.TempPath, file.Name, file.MimeType)
	if err != nil {
		logging.Error().Err(err).Str("file", file.Name).Msg("no se pudo subir el avatar")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed To Upload Doctor Avatar To Storage")
	}

	doctor, err := h.createUser(ctx, req.Person(), models.RoleDoctor, req.DoctorDepartment, avatar,
		"Doctor With This Email Already Exists!")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "New Doctor Registered",
		"doctor":  doctor,
	})
}

// GetAllDoctors lista los médicos registrados
func (h *UserHandler) GetAllDoctors(c *fiber.Ctx) error {
	doctors, err := h.users.ListByRole(c.UserContext(), models.RoleDoctor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"doctors": doctors,
	})
}

// GetUserDetails devuelve el usuario de la sesión actual
func (h *UserHandler) GetUserDetails(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"user":    middleware.CurrentUser(c),
	})
}

func (h *UserHandler) logout(cookie, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h.auth.Tokens.ClearCookie(c, cookie)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": message,
		})
	}
}

// createUser verifica que el email esté libre, cifra la contraseña e inserta el usuario
func (h *UserHandler) createUser(ctx context.Context, req models.PersonRequest, role, department string,
	avatar *models.Avatar, duplicateMsg string) (*models.User, error) {
	_, err := h.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, duplicateMsg)
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		NIC:              req.NIC,
		DOB:              dob,
		Gender:           req.Gender,
		Password:         string(hashed),
		Role:             role,
		DoctorDepartment: department,
		DocAvatar:        avatar,
	}
	if err := h.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// sendToken firma el token, lo guarda en la cookie del rol y responde
func (h *UserHandler) sendToken(c *fiber.Ctx, user *models.User, message string, status int) error {
	token, err := h.auth.Tokens.Generate(user)
	if err != nil {
		return err
	}
	h.auth.Tokens.SetCookie(c, middleware.CookieFor(user.Role), token)
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"user":    user,
		"token":   token,
	})
}
