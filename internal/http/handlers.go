package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.config.ServiceName,
	})
}

func (s *Server) handleMetrics() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		Registry: s.registry,
	}))
}

// handleList returns every project in insertion order.
func (s *Server) handleList(c echo.Context) error {
	ctx := c.Request().Context()
	projects, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	s.logger.Trace(ctx, "projects listed", zap.Int("count", len(projects)))
	return c.JSON(http.StatusOK, projects)
}

// handleCreate appends a project and returns the updated list.
func (s *Server) handleCreate(c echo.Context) error {
	ctx := c.Request().Context()
	req := requestBody(c)

	projects, err := s.store.Create(ctx, req.ID, req.Title)
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "project created", zap.String("project_id", req.ID))
	return c.JSON(http.StatusOK, projects)
}

// handleAddTask appends a task to the project named by :id.
func (s *Server) handleAddTask(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := projectID(c)
	if err != nil {
		return err
	}

	projects, err := s.store.AddTask(ctx, id, requestBody(c).Title)
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "task added", zap.String("project_id", id))
	return c.JSON(http.StatusOK, projects)
}

// handleRename overwrites the title of the project named by :id.
func (s *Server) handleRename(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := projectID(c)
	if err != nil {
		return err
	}

	projects, err := s.store.Rename(ctx, id, requestBody(c).Title)
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "project renamed", zap.String("project_id", id))
	return c.JSON(http.StatusOK, projects)
}

// handleDelete removes the project named by :id and replies with an empty body.
func (s *Server) handleDelete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := projectID(c)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Debug(ctx, "project deleted", zap.String("project_id", id))
	return c.NoContent(http.StatusOK)
}
