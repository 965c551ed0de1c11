package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

// RegisterOps attaches the operational endpoints shared by both services:
// store health, liveness, Prometheus metrics and, when docs is set, the Swagger UI.
func RegisterOps(app *fiber.App, db Pinger, gatherer prometheus.Gatherer, docs *swag.Spec) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if docs == nil {
		return
	}
	app.Get("/swagger/doc.json", SwaggerDoc(docs))
	app.Get("/swagger/*", swagger.New(swagger.Config{InstanceName: docs.InstanceName()}))
}

// SwaggerDoc renders docs with the host and scheme the caller used to reach the API.
// The shared spec is copied per request and never written.
func SwaggerDoc(docs *swag.Spec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		spec := *docs
		spec.Host = c.Get("Host")
		spec.Schemes = []string{scheme}

		doc := spec.ReadDoc()
		return c.Type("json").SendString(doc)
	}
}
