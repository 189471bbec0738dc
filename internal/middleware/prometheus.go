package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"slideshow/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsPath    = "/metrics"
	unmatchedRoute = "unmatched"
)

// PrometheusMetrics считает запросы по шаблону маршрута (/view/:id), не по фактическому пути.
// Сами запросы к /metrics не учитываются.
func PrometheusMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Path() == metricsPath {
			return next(c)
		}

		method := c.Request().Method
		route := routeLabel(c)

		timer := prometheus.NewTimer(metrics.HTTPRequestDuration.WithLabelValues(method, route))
		err := next(c)
		timer.ObserveDuration()

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(responseStatus(c, err))).Inc()

		return err
	}
}

func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return unmatchedRoute
}

// responseStatus код ответа; ошибка обработчика ещё не записана, её код берётся из самой ошибки
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
