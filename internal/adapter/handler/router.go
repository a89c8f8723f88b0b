package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trananhdev/meeting-minutes/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	webhookHandler *Webhook
	jobHandler     *Job
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *Webhook, jobHandler *Job) *Router {
	return &Router{
		cfg:            cfg,
		webhookHandler: webhookHandler,
		jobHandler:     jobHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupWebhookRoutes(v1)
	rt.setupJobRoutes(v1)
}

// setupWebhookRoutes configures the per-tenant webhook endpoints
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhooks := g.Group("/webhooks")
	webhooks.POST("/:tenant_id", rt.webhookHandler.Receive)
	webhooks.GET("/:tenant_id", rt.webhookHandler.Challenge)
}

// setupJobRoutes configures the job status and admin surface
func (rt *Router) setupJobRoutes(g *echo.Group) {
	jobs := g.Group("/jobs")
	jobs.POST("", rt.jobHandler.CreateManual)
	jobs.GET("/:id", rt.jobHandler.Get)
	jobs.POST("/:id/retry", rt.jobHandler.Retry)

	g.GET("/minutes/:id/deliveries", rt.jobHandler.ListDeliveries)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
