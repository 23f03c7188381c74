package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_intent_classifications_total",
			Help: "Total number of classified messages by intent and classifier source",
		},
		[]string{"intent", "source"},
	)

	LLMClassifierFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_llm_classifier_failures_total",
			Help: "Total number of LLM classifications that fell back to keyword rules",
		},
	)

	DispatchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_dispatch_outcomes_total",
			Help: "Total number of dispatch outcomes by intent and status",
		},
		[]string{"intent", "status"},
	)

	QuotaDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_quota_decisions_total",
			Help: "Total number of quota admissions and rejections by resource",
		},
		[]string{"resource", "decision"},
	)

	JobScoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_job_score_duration_seconds",
			Help:    "Duration of a single resume vs job scoring call",
			Buckets: prometheus.DefBuckets,
		},
	)
)
