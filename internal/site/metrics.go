package site

import "github.com/prometheus/client_golang/prometheus"

var (
	unresolvedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sitegen",
		Subsystem: "render",
		Name:      "unresolved_placeholders_total",
		Help:      "Image placeholders still present in delivered documents",
	})
	pipelineTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitegen",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Generate and edit pipeline runs by operation and outcome",
	}, []string{"op", "outcome"})
)

func init() {
	prometheus.MustRegister(unresolvedTotal, pipelineTotal)
}
