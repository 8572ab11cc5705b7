package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CaseMetrics is safe to use through a nil pointer; every recorder is then a
// no-op.
type CaseMetrics struct {
	CasesCreatedTotal       *prometheus.CounterVec
	CaseTransitionsTotal    *prometheus.CounterVec
	ClaimAttemptsTotal      *prometheus.CounterVec
	SettlementsCreatedTotal *prometheus.CounterVec
	SettlementAmountTotal   *prometheus.CounterVec
	SettlementPaymentsTotal *prometheus.CounterVec
	PresenceReleasesTotal   prometheus.Counter
	OperationErrorsTotal    *prometheus.CounterVec
	OperationDuration       *prometheus.HistogramVec
}

func NewCaseMetrics(reg prometheus.Registerer) *CaseMetrics {
	factory := promauto.With(reg)
	return &CaseMetrics{
		CasesCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cases_created_total",
				Help: "Cases opened by customers",
			},
			[]string{"region"},
		),
		CaseTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "case_transitions_total",
				Help: "Committed case status transitions",
			},
			[]string{"from", "to"},
		),
		ClaimAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "case_claim_attempts_total",
				Help: "Claim attempts by outcome",
			},
			[]string{"result"},
		),
		SettlementsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_created_total",
				Help: "Settlement records generated",
			},
			[]string{"type"},
		),
		SettlementAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_amount_total",
				Help: "Sum of generated settlement amounts",
			},
			[]string{"type"},
		),
		SettlementPaymentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_payments_total",
				Help: "Settlements moved to a final status",
			},
			[]string{"type", "status"},
		),
		PresenceReleasesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "presence_releases_total",
				Help: "Partners returned from working to waiting",
			},
		),
		OperationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "case_operation_errors_total",
				Help: "Rejected or failed operations",
			},
			[]string{"operation", "reason"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "case_operation_duration_seconds",
				Help:    "Latency of case and settlement operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (m *CaseMetrics) RecordCaseCreated(region string) {
	if m == nil {
		return
	}
	m.CasesCreatedTotal.WithLabelValues(region).Inc()
}

func (m *CaseMetrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.CaseTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordClaim result is one of won, lost or rejected.
func (m *CaseMetrics) RecordClaim(result string) {
	if m == nil {
		return
	}
	m.ClaimAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *CaseMetrics) RecordSettlementCreated(settlementType string, amount int64) {
	if m == nil {
		return
	}
	m.SettlementsCreatedTotal.WithLabelValues(settlementType).Inc()
	m.SettlementAmountTotal.WithLabelValues(settlementType).Add(float64(amount))
}

func (m *CaseMetrics) RecordSettlementPayment(settlementType, status string) {
	if m == nil {
		return
	}
	m.SettlementPaymentsTotal.WithLabelValues(settlementType, status).Inc()
}

func (m *CaseMetrics) RecordPresenceRelease() {
	if m == nil {
		return
	}
	m.PresenceReleasesTotal.Inc()
}

func (m *CaseMetrics) RecordError(operation, reason string) {
	if m == nil {
		return
	}
	m.OperationErrorsTotal.WithLabelValues(operation, reason).Inc()
}

// ObserveDuration is meant to be deferred: defer m.ObserveDuration("claim", time.Now()).
func (m *CaseMetrics) ObserveDuration(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
