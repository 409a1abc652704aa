package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/lizet96/hms-backend/config"
	"github.com/lizet96/hms-backend/database"
	"github.com/lizet96/hms-backend/middleware"
	"github.com/lizet96/hms-backend/models"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (m *memUsers) ListByRole(_ context.Context, role string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.byID {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUsers) FindDoctors(_ context.Context, first, last, dept string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, u := range m.byID {
		if u.Role == models.RoleDoctor && u.FirstName == first && u.LastName == last && u.DoctorDepartment == dept {
			out = append(out, *u)
		}
	}
	return out, nil
}

// seed inserta un usuario con la contraseña ya cifrada
func (m *memUsers) seed(t *testing.T, u models.User, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u.Password = string(hash)
	if err := m.Create(context.Background(), &u); err != nil {
		t.Fatal(err)
	}
	return &u
}

type memMessages struct {
	mu   sync.Mutex
	list []models.Message
	err  error
}

func (m *memMessages) Create(_ context.Context, msg *models.Message) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = int64(len(m.list) + 1)
	m.list = append(m.list, *msg)
	return nil
}

func (m *memMessages) List(context.Context) ([]models.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Message{}, m.list...), nil
}

type memAppointments struct {
	mu   sync.Mutex
	byID map[int64]*models.Appointment
	next int64
}

func newMemAppointments() *memAppointments {
	return &memAppointments{byID: map[int64]*models.Appointment{}}
}

func (m *memAppointments) Create(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	a.ID = m.next
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memAppointments) List(context.Context) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.byID {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memAppointments) UpdateStatus(_ context.Context, id int64, status string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	a.Status = status
	cp := *a
	return &cp, nil
}

func (m *memAppointments) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type fakeAvatars struct {
	uploaded []string
	err      error
}

func (f *fakeAvatars) PutAvatar(_ context.Context, localPath, originalName, _ string) (*models.Avatar, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploaded = append(f.uploaded, localPath)
	return &models.Avatar{PublicID: "avatars/" + originalName, URL: "http://minio/hms/avatars/" + originalName}, nil
}

// testEnv arma una app con los tres grupos de rutas sobre stores en memoria
type testEnv struct {
	app          *fiber.App
	tokens       *middleware.Tokens
	users        *memUsers
	messages     *memMessages
	appointments *memAppointments
	avatars      *fakeAvatars
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		tokens:       middleware.NewTokens(config.Auth{JWTSecret: "test-secret", JWTExpires: time.Hour, CookieExpire: 7}),
		users:        newMemUsers(),
		messages:     &memMessages{},
		appointments: newMemAppointments(),
		avatars:      &fakeAvatars{},
	}
	auth := NewAuth(env.tokens, env.users)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(middleware.CookieParser())
	app.Use(middleware.FileUpload(middleware.UploadConfig{TempDir: t.TempDir(), MaxFileSize: 1 << 20}))
	NewMessageHandler(env.messages, auth).Register(app.Group("/api/v1/message"))
	NewUserHandler(env.users, env.avatars, auth).Register(app.Group("/api/v1/user"))
	NewAppointmentHandler(env.appointments, env.users, auth).Register(app.Group("/api/v1/appointment"))
	env.app = app
	return env
}

// cookie devuelve la cookie de sesión firmada para el usuario
func (e *testEnv) cookie(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := e.tokens.Generate(u)
	if err != nil {
		t.Fatal(err)
	}
	return middleware.CookieFor(u.Role) + "=" + tok
}

func jsonRequest(method, target, body, cookie string) *http.Request {
	req, _ := http.NewRequest(method, "http://hms.test"+target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req
}

func call(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	body := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
	}
	return resp, body
}

func expect(t *testing.T, resp *http.Response, body map[string]any, status int, message string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d (body %v)", resp.StatusCode, status, body)
	}
	if message != "" && body["message"] != message {
		t.Fatalf("message = %v, want %q", body["message"], message)
	}
}
