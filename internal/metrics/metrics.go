// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallsStarted counts call sessions that connected, by mode.
	CallsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockwise_calls_started_total",
		Help: "Number of voice call sessions started.",
	}, []string{"mode"})

	// CallsFinished counts call sessions that reached the finished state.
	CallsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mockwise_calls_finished_total",
		Help: "Number of voice call sessions finished.",
	}, []string{"mode"})

	// FeedbackCreated counts feedback records persisted after grading.
	FeedbackCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockwise_feedback_created_total",
		Help: "Number of feedback records created.",
	})

	// FeedbackFailed counts grading runs that ended in an error.
	FeedbackFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockwise_feedback_failed_total",
		Help: "Number of feedback generation attempts that failed.",
	})

	// InterviewsGenerated counts interviews created from generated questions.
	InterviewsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mockwise_interviews_generated_total",
		Help: "Number of interviews created via question generation.",
	})
)
