package llm

import "github.com/prometheus/client_golang/prometheus"

var generateDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "sitegen",
		Subsystem: "llm",
		Name:      "generate_duration_seconds",
		Help:      "Duration of text-generation backend calls in seconds",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 240, 420},
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(generateDuration)
}
