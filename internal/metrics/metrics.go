package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConnectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ea_connections_total", Help: "Terminal connections accepted"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "ea_active_sessions", Help: "Terminal sessions currently open"},
	)
	SessionsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ea_sessions_closed_total", Help: "Terminal sessions closed by reason"},
		[]string{"reason"},
	)
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ea_messages_total", Help: "Inbound messages by outcome"},
		[]string{"result"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ea_signals_total", Help: "Signals computed by direction"},
		[]string{"direction"},
	)
	AcceptErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "ea_accept_errors_total", Help: "Failed accept calls on the listener"},
	)
)

func init() {
	prometheus.MustRegister(ConnectionsTotal, ActiveSessions, SessionsClosed, MessagesTotal, SignalsTotal, AcceptErrors)
}

// Serve exposes /metrics on addr. The caller owns shutdown of the returned server.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
