package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recomendaciones por modo: similar, survey, none
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommendations_total",
			Help: "Total de recomendaciones servidas por modo",
		},
		[]string{"mode"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommendation_duration_seconds",
			Help:    "Duración de una recomendación incluyendo pósters",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// Resultado de cada búsqueda de póster: ok, no_image, placeholder
	PosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_poster_lookups_total",
			Help: "Búsquedas de póster por resultado",
		},
		[]string{"outcome"},
	)

	PosterLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movierec_poster_lookup_duration_seconds",
			Help:    "Latencia de la API de pósters",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// 0 = closed, 1 = half-open, 2 = open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierec_circuit_breaker_state",
			Help: "Estado del circuit breaker",
		},
		[]string{"name"},
	)

	ProfilesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_profiles_stored_total",
			Help: "Perfiles de encuesta guardados por backend y resultado",
		},
		[]string{"backend", "result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_http_request_duration_seconds",
			Help:    "Duración de requests HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_catalog_items",
			Help: "Películas cargadas en el catálogo",
		},
	)
)
