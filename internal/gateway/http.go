package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/archaeovault/archaeovault/internal/store"
	"github.com/archaeovault/archaeovault/internal/workflow"
)

// RunLister exposes run history to the HTTP API.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error)
}

// HTTPGateway exposes the workflow entry point over a JSON API:
//
//	POST /api/v1/workflows/:name   run a workflow
//	GET  /api/v1/workflows         list workflows
//	GET  /api/v1/runs              recent run history
//	GET  /healthz                  liveness
type HTTPGateway struct {
	runner Runner
	runs   RunLister
	server *http.Server
}

func NewHTTPGateway(addr string, runner Runner, runs RunLister) *HTTPGateway {
	g := &HTTPGateway{
		runner: runner,
		runs:   runs,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/healthz", g.handleHealth)
	api := e.Group("/api/v1")
	api.GET("/workflows", g.handleListWorkflows)
	api.POST("/workflows/:name", g.handleRunWorkflow)
	api.GET("/runs", g.handleListRuns)

	g.server = &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // workflows block on reasoning calls
		IdleTimeout:  60 * time.Second,
	}

	return g
}

func (g *HTTPGateway) Start() error {
	err := g.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (g *HTTPGateway) Send(chatID string, text string) error {
	// The HTTP gateway is request/response only.
	return nil
}

func (g *HTTPGateway) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return g.server.Shutdown(ctx)
}

func (g *HTTPGateway) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   "archaeovault",
		"timestamp": time.Now().UTC(),
	})
}

func (g *HTTPGateway) handleListWorkflows(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"workflows": g.runner.Workflows(),
	})
}

type runWorkflowRequest struct {
	Input map[string]any `json:"input"`
}

func (g *HTTPGateway) handleRunWorkflow(c echo.Context) error {
	var body runWorkflowRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "request body must be a JSON object with an input field",
		})
	}

	req := workflow.NewRequest(c.Param("name"), body.Input)
	res, err := g.runner.Run(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, res)
}

func (g *HTTPGateway) handleListRuns(c echo.Context) error {
	if g.runs == nil {
		return c.JSON(http.StatusOK, map[string]any{"runs": []store.RunSummary{}})
	}

	runs, err := g.runs.ListRuns(c.Request().Context(), 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to load run history",
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": runs})
}
