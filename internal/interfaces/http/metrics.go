package http

import (
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "publicacoes_http_requests_total",
		Help: "Total de requisições HTTP por rota, método e status.",
	}, []string{"route", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "publicacoes_http_request_duration_seconds",
		Help:    "Duração das requisições HTTP.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	movementCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "publicacoes_stock_movements_total",
		Help: "Movimentações de estoque registradas, por tipo.",
	}, []string{"type"})

	insufficientStockCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "publicacoes_insufficient_stock_total",
		Help: "Saídas recusadas por saldo insuficiente.",
	})

	loginCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "publicacoes_logins_total",
		Help: "Tentativas de login, por resultado.",
	}, []string{"result"})
)

// MetricsMiddleware conta e cronometra as requisições por rota.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		method := c.Method()
		requestCounter.WithLabelValues(route, method, strconv.Itoa(c.Response().StatusCode())).Inc()
		requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return err
	}
}

// MetricsHandler expõe /metrics no formato Prometheus.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
