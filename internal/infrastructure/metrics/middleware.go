package metrics

import (
	"time"

	"github.com/labstack/echo/v4"
)

// Middleware returns an echo middleware that records metrics for each request.
// Routes are labeled by their registered path, not the raw URL, to keep
// cardinality bounded.
func Middleware(collector *Collector, exporter *PrometheusExporter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			route := c.Request().Method + " " + c.Path()

			// Record request
			collector.RecordRequest(route)
			if exporter != nil {
				exporter.RecordRequest(route)
			}

			// Call handler
			err := next(c)

			// Record duration
			duration := time.Since(start).Seconds()
			collector.RecordDuration(route, duration)
			if exporter != nil {
				exporter.RecordDuration(route, duration)
			}

			// Record error if any
			if err != nil || c.Response().Status >= 500 {
				collector.RecordError(route)
				if exporter != nil {
					exporter.RecordError(route)
				}
			}

			return err
		}
	}
}
