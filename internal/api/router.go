package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"VoltSentinel/internal/metrics"
)

// NewRouter builds the HTTP routing table over an API handler.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/voltage-data", h.VoltageData).Methods(http.MethodGet)
	router.HandleFunc("/api/csv-data", h.DatasetBootstrap).Methods(http.MethodGet)
	router.HandleFunc("/api/status", h.Status).Methods(http.MethodGet)
	router.HandleFunc("/api/telegram-alert", h.TriggerAlert).Methods(http.MethodPost)
	router.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler())

	router.Use(loggingMiddleware)
	router.Use(metricsMiddleware)

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		metrics.RequestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
	})
}
