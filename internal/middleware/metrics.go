package middleware

import (
	"strconv"
	"time"

	"warescan-service/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		duration := time.Since(start).Seconds()
		method := c.Request().Method
		path := c.Path()
		status := strconv.Itoa(c.Response().Status)

		if prometheus.HttpRequestsTotal != nil {
			prometheus.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
		}
		if prometheus.HttpRequestDuration != nil {
			prometheus.HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		}

		return err
	}
}
