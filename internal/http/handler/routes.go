package handler

import (
	"database/sql"
	_ "embed"

	"github.com/gofiber/fiber/v2"

	"docbridge/internal/config"
	"docbridge/internal/demo"
	"docbridge/internal/http/middleware"
	"docbridge/internal/service"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Services bundles the use-case implementations the routes dispatch to.
type Services struct {
	Documents   service.DocumentService
	Sessions    service.SessionService
	Callbacks   service.CallbackService
	Permissions service.PermissionService
	Conversions service.ConversionService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business logic lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, cfg *config.AppConfig, svcs Services) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.Send(openapiSpec)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint checks DB connectivity; healthz is plain liveness
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())

	app.Get("/formats", Formats())
	app.Get("/demo", DemoStatus(demo.Trial{StartedAt: cfg.Demo.StartedAt}, cfg.Demo.Enabled))

	requireAuth := middleware.RequireAuth(cfg.Auth.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.Auth.JWTSecret)

	// Editing session config; anonymous visitors get a read-only view
	app.Get("/editor/:key", optionalAuth, EditorSession(svcs.Sessions))

	// The editor probes the callback URL with GET before opening a session,
	// then POSTs session notifications to it.
	app.Get("/callback/:key", CallbackLiveness())
	app.Post("/callback/:key", Callback(svcs.Callbacks, cfg.Editor.TokenHeader))

	app.Get("/documents", ListDocuments(svcs.Documents))
	app.Post("/documents", requireAuth, UploadDocument(svcs.Documents))
	app.Get("/documents/:key", GetDocument(svcs.Documents))
	// Download stays unauthenticated: the editor fetches document bytes
	// through it without host credentials.
	app.Get("/documents/:key/download", DownloadDocument(svcs.Documents))
	app.Delete("/documents/:key", requireAuth, DeleteDocument(svcs.Documents))

	app.Get("/documents/:key/permissions", requireAuth, ListPermissions(svcs.Permissions))
	app.Post("/documents/:key/permissions", requireAuth, CreatePermission(svcs.Permissions))
	app.Put("/documents/:key/permissions/:id", requireAuth, UpdatePermission(svcs.Permissions))
	app.Delete("/documents/:key/permissions/:id", requireAuth, DeletePermission(svcs.Permissions))

	app.Post("/convert", requireAuth, ConvertDocument(svcs.Conversions))
}
