package http

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/projectd/internal/logging"
)

// middleware returns the server-wide chain in execution order.
func (s *Server) middleware(trace echo.MiddlewareFunc, metrics *HTTPMetrics) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator: uuid.NewString,
			RequestIDHandler: func(c echo.Context, id string) {
				req := c.Request()
				c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
			},
		}),
		trace,
		s.countRequests,
		s.accessLog,
		metrics.MetricsMiddleware(),
		// Errors from below are rendered here; outer middleware see the final status.
		renderErrors,
	}

	if s.config.RateLimit > 0 {
		chain = append(chain, middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(s.config.RateLimit),
				Burst: int(math.Max(1, math.Ceil(s.config.RateLimit))),
			}),
		}))
	}

	return chain
}

func renderErrors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := next(c); err != nil {
			c.Error(err)
		}
		return nil
	}
}

// countRequests increments the global request counter and logs its value.
func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		n := s.requests.Add(1)
		s.prom.requests.Inc()
		s.logger.Info(c.Request().Context(), "total of requests", zap.Int64("requests_total", n))
		return next(c)
	}
}

func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		req := c.Request()
		s.logger.Info(req.Context(), "http request",
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
