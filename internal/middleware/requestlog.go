package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const loggerKey = "logger"

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = echo.HeaderXRequestID

// RequestLogger assigns every request an id, stores a logger tagged with it
// in the context and logs the outcome once the handler returns.
func RequestLogger(base logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, id)

			log := base.WithFields(logrus.Fields{
				"reqid":     id,
				"remote-ip": c.RealIP(),
				"method":    req.Method,
				"path":      req.URL.Path,
			})
			c.Set(loggerKey, log)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := log.WithFields(logrus.Fields{
				"status":  c.Response().Status,
				"latency": time.Since(start).String(),
			})
			if c.Response().Status >= 500 {
				entry.Warn("request failed")
			} else {
				entry.Debug("request served")
			}
			return nil
		}
	}
}

// Logger returns the request's logger, or a standard logger entry when
// RequestLogger did not run.
func Logger(c echo.Context) logrus.FieldLogger {
	if l, ok := c.Get(loggerKey).(logrus.FieldLogger); ok {
		return l
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
