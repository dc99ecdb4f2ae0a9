package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/projectd/internal/project"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleError renders err as {"error": message}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := s.classify(c, err)

	var renderErr error
	if c.Request().Method == http.MethodHead {
		renderErr = c.NoContent(code)
	} else {
		renderErr = c.JSON(code, ErrorResponse{Error: msg})
	}
	if renderErr != nil {
		s.logger.Error(c.Request().Context(), "failed to write error response", zap.Error(renderErr))
	}
}

// classify maps err to a status code and client-facing message.
func (s *Server) classify(c echo.Context, err error) (int, string) {
	var missing *MissingFieldError
	var he *echo.HTTPError

	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest, missing.Error()
	case errors.Is(err, project.ErrProjectNotFound):
		return http.StatusBadRequest, project.ErrProjectNotFound.Error()
	case errors.Is(err, project.ErrEmptyProjectID):
		return http.StatusBadRequest, (&MissingFieldError{Field: fieldID}).Error()
	case errors.Is(err, project.ErrEmptyTitle):
		return http.StatusBadRequest, (&MissingFieldError{Field: fieldTitle}).Error()
	case errors.Is(err, project.ErrProjectExists):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &he):
		if he.Internal != nil {
			s.logger.Debug(c.Request().Context(), "request rejected",
				zap.Int("status", he.Code), zap.Error(he.Internal))
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	s.logger.Error(c.Request().Context(), "unhandled request error",
		zap.String("path", c.Path()), zap.Error(err))
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
