package images

import "github.com/prometheus/client_golang/prometheus"

const (
	sourcePexels   = "pexels"
	sourceFallback = "fallback"

	reasonNone         = "none"
	reasonNoCredential = "no_credential"
	reasonStatus       = "status"
	reasonNoResults    = "no_results"
	reasonError        = "error"
	reasonRateLimited  = "rate_limited"
)

var resolvedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "sitegen",
		Subsystem: "images",
		Name:      "resolved_total",
		Help:      "Image placeholder resolutions by source and fallback reason",
	},
	[]string{"source", "reason"},
)

func init() {
	prometheus.MustRegister(resolvedTotal)
}
