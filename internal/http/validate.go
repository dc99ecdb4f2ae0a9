package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/projectd/internal/project"
)

// Request body fields that can be required.
const (
	fieldID    = "id"
	fieldTitle = "title"
)

const bodyKey = "projectd.body"

// projectRequest is the body accepted by the mutating routes.
type projectRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (r *projectRequest) field(name string) string {
	switch name {
	case fieldID:
		return r.ID
	case fieldTitle:
		return r.Title
	}
	return ""
}

// MissingFieldError reports a required body field that was absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Field + " is required"
}

// bindBody decodes the JSON body once and stores it on the context.
// Bodies not sent as application/json are treated as having no fields.
func bindBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &projectRequest{}
		if isJSON(c.Request()) {
			if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
				return err
			}
		}
		c.Set(bodyKey, req)
		return next(c)
	}
}

func isJSON(r *http.Request) bool {
	ctype := strings.ToLower(r.Header.Get(echo.HeaderContentType))
	return strings.HasPrefix(ctype, echo.MIMEApplicationJSON)
}

// requestBody returns the body decoded by bindBody.
func requestBody(c echo.Context) *projectRequest {
	if req, ok := c.Get(bodyKey).(*projectRequest); ok {
		return req
	}
	return &projectRequest{}
}

// requireFields fails with MissingFieldError for the first empty field.
func requireFields(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := requestBody(c)
			for _, name := range names {
				if req.field(name) == "" {
					return &MissingFieldError{Field: name}
				}
			}
			return next(c)
		}
	}
}

// requireProject fails with project.ErrProjectNotFound when :id has no match.
func requireProject(store project.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := projectID(c)
			if err != nil {
				return err
			}
			if !store.Exists(c.Request().Context(), id) {
				return project.ErrProjectNotFound
			}
			return next(c)
		}
	}
}

// projectID returns the :id path parameter with percent-encoding removed.
// echo matches on the raw path when one is present, so ids containing an
// escaped "/" arrive still encoded.
func projectID(c echo.Context) (string, error) {
	id := c.Param("id")
	if c.Request().URL.RawPath == "" {
		return id, nil
	}
	decoded, err := url.PathUnescape(id)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid project id")
	}
	return decoded, nil
}
