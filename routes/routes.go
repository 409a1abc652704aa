package routes

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/lizet96/hms-backend/config"
	"github.com/lizet96/hms-backend/handlers"
	"github.com/lizet96/hms-backend/logging"
	"github.com/lizet96/hms-backend/metrics"
	"github.com/lizet96/hms-backend/middleware"
)

// multipartOverhead margen sobre los archivos para los campos de texto y los boundaries
const multipartOverhead = 1 << 20

// requestLimit es el tope de fasthttp para la petición completa: deja pasar
// UploadFiles archivos del tamaño máximo; el límite por archivo lo aplica FileUpload.
func requestLimit(cfg *config.Config) int {
	return cfg.UploadLimit*cfg.UploadFiles + multipartOverhead
}

// Collaborators registran sus rutas bajo el prefijo que les corresponde
type Collaborators struct {
	Message     func(fiber.Router)
	User        func(fiber.Router)
	Appointment func(fiber.Router)
}

// NewApp construye la aplicación con todo el pipeline de middlewares, las
// rutas de la API y el manejador de errores al final.
func NewApp(cfg *config.Config, collab Collaborators, readiness handlers.Readiness) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Hospital Management System API v1.0.0",
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    requestLimit(cfg),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Middleware global, en orden
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Environment != config.EnvironmentProduction}))
	app.Use(corsHandler(cfg.CORS))
	app.Use(middleware.CookieParser())
	app.Use(middleware.BodyParser(cfg.BodyLimit))
	app.Use(middleware.FileUpload(middleware.UploadConfig{
		TempDir:     cfg.UploadDir,
		MaxFileSize: int64(cfg.UploadLimit),
		MaxFiles:    cfg.UploadFiles,
	}))

	api := app.Group("/api/v1")
	mount(api, "/message", collab.Message)
	mount(api, "/user", collab.User)
	mount(api, "/appointment", collab.Appointment)

	// Rutas de operación
	app.Get("/health", handlers.Health)
	app.Get("/ready", handlers.Ready(readiness))
	app.Get("/metrics", metrics.Handler())

	app.Use(middleware.NotFound())
	return app
}

func mount(api fiber.Router, prefix string, register func(fiber.Router)) {
	if register == nil {
		return
	}
	register(api.Group(prefix))
}

// corsHandler acepta solo los orígenes configurados, o cualquiera si falta alguno
func corsHandler(c config.CORS) fiber.Handler {
	corsCfg := cors.Config{
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,X-Requested-With",
		AllowCredentials: true,
	}
	if c.AllowAll() {
		logging.Warn().
			Str("frontend_url", c.FrontendURL).
			Str("dashboard_url", c.DashboardURL).
			Msg("CORS abierto a cualquier origen: falta FRONTEND_URL o DASHBOARD_URL")
		corsCfg.AllowOriginsFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = strings.Join(c.Origins(), ",")
	}
	return cors.New(corsCfg)
}
