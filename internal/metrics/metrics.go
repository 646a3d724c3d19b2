package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reveal_rooms_created_total",
		Help: "Rooms registered since process start.",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reveal_sessions_active",
		Help: "Sessions currently attached to a room.",
	})

	CellsRevealed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reveal_cells_revealed_total",
		Help: "Accepted reveals, split by whether the cell was a bomb.",
	}, []string{"bomb"})

	DeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reveal_delivery_failures_total",
		Help: "Outbound messages dropped for a single recipient during fan-out.",
	})

	InboundIgnored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reveal_inbound_ignored_total",
		Help: "Inbound messages that produced no broadcast.",
	}, []string{"reason"})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
