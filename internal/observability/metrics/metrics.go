package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vms_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	ledgerAppends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vms_ledger_appends_total",
		Help: "Ledger records appended, by owner kind and transaction type",
	}, []string{"owner", "type"})
)

// ObserveLedgerAppend records a successful record append.
// owner is "user" or "client", typ is "credit" or "debit".
func ObserveLedgerAppend(owner, typ string) {
	ledgerAppends.WithLabelValues(owner, typ).Inc()
}

// Middleware counts every request against its route pattern, not the raw
// path, so uuids do not explode the label space.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}
		path := c.Route().Path
		httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()

		return err
	}
}

// Handler exposes the prometheus registry at /metrics.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
