package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/lizet96/hms-backend/config"
	"github.com/lizet96/hms-backend/database"
	"github.com/lizet96/hms-backend/models"
)

// Nombres de las cookies de sesión
const (
	AdminCookie   = "adminToken"
	PatientCookie = "patientToken"
)

const userKey = "user"

// ErrNoSecret se devuelve al firmar sin JWT_SECRET_KEY configurado
var ErrNoSecret = errors.New("JWT_SECRET_KEY is not configured")

// Claims personalizados para el JWT
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens firma y valida los tokens de sesión y arma sus cookies
type Tokens struct {
	cfg config.Auth
	now func() time.Time
}

// NewTokens crea el emisor de tokens
func NewTokens(cfg config.Auth) *Tokens {
	return &Tokens{cfg: cfg, now: time.Now}
}

// Generate genera un token JWT para un usuario
func (t *Tokens) Generate(u *models.User) (string, error) {
	if t.cfg.JWTSecret == "" {
		return "", ErrNoSecret
	}
	now := t.now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.JWTExpires)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.cfg.JWTSecret))
}

// Parse valida el token y devuelve sus claims
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	if t.cfg.JWTSecret == "" {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(t.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// SetCookie guarda el token en la cookie indicada
func (t *Tokens) SetCookie(c *fiber.Ctx, name, token string) {
	sameSite := fiber.CookieSameSiteLaxMode
	if t.cfg.SecureCookie {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Expires:  t.now().Add(time.Duration(t.cfg.CookieExpire) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   t.cfg.SecureCookie,
		SameSite: sameSite,
	})
}

// ClearCookie vacía la cookie y la expira de inmediato
func (t *Tokens) ClearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  t.now(),
		HTTPOnly: true,
		Secure:   t.cfg.SecureCookie,
	})
}

// CookieFor devuelve la cookie de sesión que corresponde a un rol
func CookieFor(role string) string {
	if role == models.RoleAdmin {
		return AdminCookie
	}
	return PatientCookie
}

// UserFinder carga el usuario dueño del token
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// RequireRole valida el token de la cookie, carga al usuario y exige el rol
func RequireRole(tokens *Tokens, users UserFinder, cookie, role, unauthenticated string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := Cookie(c, cookie)
		if token == "" {
			return fiber.NewError(fiber.StatusBadRequest, unauthenticated)
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			return err
		}

		user, err := users.FindByID(c.UserContext(), claims.UserID)
		if errors.Is(err, database.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, unauthenticated)
		}
		if err != nil {
			return err
		}

		if user.Role != role {
			return fiber.NewError(fiber.StatusForbidden,
				fmt.Sprintf("%s not authorized for this resource!", user.Role))
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// IsAdminAuthenticated exige la sesión de administrador del dashboard
func IsAdminAuthenticated(tokens *Tokens, users UserFinder) fiber.Handler {
	return RequireRole(tokens, users, AdminCookie, models.RoleAdmin, "Dashboard User is not authenticated!")
}

// IsPatientAuthenticated exige la sesión de paciente del sitio público
func IsPatientAuthenticated(tokens *Tokens, users UserFinder) fiber.Handler {
	return RequireRole(tokens, users, PatientCookie, models.RolePatient, "User is not authenticated!")
}

// CurrentUser devuelve el usuario autenticado por RequireRole
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
