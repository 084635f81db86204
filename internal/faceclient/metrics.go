package faceclient

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opRegisterFace      = "register_face"
	opMarkAttendance    = "mark_attendance"
	opAttendanceRecords = "attendance_records"
	opRegisteredFaces   = "registered_faces"
	opHealth            = "health"

	outcomeOK        = "ok"
	outcomeRejected  = "rejected"
	outcomeRequest   = "request"
	outcomeTransport = "transport"
	outcomeStatus    = "status"
	outcomeDecode    = "decode"
	outcomeOther     = "other"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faceclient_requests_total",
		Help: "Backend requests by operation and outcome.",
	}, []string{"operation", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "faceclient_request_duration_seconds",
		Help:    "Backend request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrRequest):
		return outcomeRequest
	case errors.Is(err, ErrTransport):
		return outcomeTransport
	case errors.Is(err, ErrStatus):
		return outcomeStatus
	case errors.Is(err, ErrDecode):
		return outcomeDecode
	default:
		return outcomeOther
	}
}

func replyOutcome(reply Reply, err error) string {
	if err == nil && !reply.Success {
		return outcomeRejected
	}
	return outcomeOf(err)
}

func observe(op string, start time.Time, outcome string) {
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(op, outcome).Inc()
}
