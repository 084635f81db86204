package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
	outcomeInvalid  = "invalid"
	outcomeBusy     = "busy"
	outcomeMerged   = "coalesced"
)

var workflowTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "attendance_workflow_total",
	Help: "Console workflow completions by workflow and outcome.",
}, []string{"workflow", "outcome"})

func countOutcome(w Workflow, outcome string) {
	workflowTotal.WithLabelValues(string(w), outcome).Inc()
}
