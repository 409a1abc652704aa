package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/lizet96/hms-backend/config"
	"github.com/lizet96/hms-backend/database"
	"github.com/lizet96/hms-backend/models"
)

type fakeUsers map[int64]*models.User

func (f fakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, database.ErrNotFound
}

func testTokens() *Tokens {
	return NewTokens(config.Auth{
		JWTSecret:    "test-secret",
		JWTExpires:   time.Hour,
		CookieExpire: 7,
	})
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := testTokens()
	token, err := tokens.Generate(&models.User{ID: 42, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokensExpired(t *testing.T) {
	tokens := testTokens()
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }
	token, err := tokens.Generate(&models.User{ID: 1, Role: models.RolePatient})
	if err != nil {
		t.Fatal(err)
	}

	tokens.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := tokens.Parse(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("Parse err = %v, want ErrTokenExpired", err)
	}
}

func TestTokensWithoutSecret(t *testing.T) {
	tokens := NewTokens(config.Auth{})
	if _, err := tokens.Generate(&models.User{ID: 1}); !errors.Is(err, ErrNoSecret) {
		t.Errorf("Generate err = %v, want ErrNoSecret", err)
	}
	if _, err := tokens.Parse("x.y.z"); !errors.Is(err, ErrNoSecret) {
		t.Errorf("Parse err = %v, want ErrNoSecret", err)
	}
}

func TestTokensRejectOtherSecret(t *testing.T) {
	token, err := NewTokens(config.Auth{JWTSecret: "other", JWTExpires: time.Hour}).
		Generate(&models.User{ID: 1, Role: models.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := testTokens().Parse(token); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Errorf("Parse err = %v, want ErrTokenSignatureInvalid", err)
	}
}

func TestRequireRole(t *testing.T) {
	tokens := testTokens()
	users := fakeUsers{
		1: {ID: 1, Role: models.RoleAdmin, FirstName: "Lisa"},
		2: {ID: 2, Role: models.RolePatient, FirstName: "Greg"},
	}
	sign := func(u *models.User) string {
		tok, err := tokens.Generate(u)
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}

	app := newTestApp()
	app.Use(CookieParser())
	app.Get("/admin", IsAdminAuthenticated(tokens, users), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "message": CurrentUser(c).FirstName})
	})

	tests := []struct {
		name        string
		cookie      string
		wantStatus  int
		wantMessage string
	}{
		{"no cookie", "", fiber.StatusBadRequest, "Dashboard User is not authenticated!"},
		{"admin", AdminCookie + "=" + sign(users[1]), fiber.StatusOK, "Lisa"},
		{"patient token in admin cookie", AdminCookie + "=" + sign(users[2]), fiber.StatusForbidden, "Patient not authorized for this resource!"},
		{"patient cookie only", PatientCookie + "=" + sign(users[2]), fiber.StatusBadRequest, "Dashboard User is not authenticated!"},
		{"unknown user", AdminCookie + "=" + sign(&models.User{ID: 99, Role: models.RoleAdmin}), fiber.StatusBadRequest, "Dashboard User is not authenticated!"},
		{"garbage token", AdminCookie + "=not-a-jwt", fiber.StatusBadRequest, "Json Web Token is invalid, Try again!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", tt.cookie)
			}
			resp, env := do(t, app, req)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, env.Message)
			}
			if env.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMessage)
			}
		})
	}
}

func TestSetAndClearCookie(t *testing.T) {
	tokens := testTokens()
	app := newTestApp()
	app.Get("/set", func(c *fiber.Ctx) error {
		tokens.SetCookie(c, PatientCookie, "tok")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		tokens.ClearCookie(c, PatientCookie)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, _ := do(t, app, httptest.NewRequest("GET", "/set", nil))
	set := resp.Header.Get("Set-Cookie")
	if !strings.Contains(set, "patientToken=tok") || !strings.Contains(strings.ToLower(set), "httponly") {
		t.Errorf("Set-Cookie = %q", set)
	}

	resp, _ = do(t, app, httptest.NewRequest("GET", "/clear", nil))
	if cleared := resp.Header.Get("Set-Cookie"); !strings.HasPrefix(cleared, "patientToken=;") {
		t.Errorf("Set-Cookie = %q, want empty patientToken", cleared)
	}
}

func TestCookieFor(t *testing.T) {
	if CookieFor(models.RoleAdmin) != AdminCookie {
		t.Error("admin must use adminToken")
	}
	if CookieFor(models.RolePatient) != PatientCookie || CookieFor(models.RoleDoctor) != PatientCookie {
		t.Error("patients and doctors use patientToken")
	}
}
