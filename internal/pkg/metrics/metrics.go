package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Workflow counters. Outcome labels match the error taxonomy so dashboards
// can separate user errors (insufficient_balance) from bug signals
// (inconsistent_state).
var (
	RequestsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leave",
		Name:      "requests_submitted_total",
		Help:      "Leave request submissions by outcome.",
	}, []string{"outcome"})

	RequestsDecided = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leave",
		Name:      "requests_decided_total",
		Help:      "Approve/reject/delete decisions by action and outcome.",
	}, []string{"action", "outcome"})

	BalanceRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leave",
		Name:      "balance_version_retries_total",
		Help:      "Compare-and-swap retries on leave balance rows.",
	})

	InconsistentStates = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leave",
		Name:      "balance_inconsistent_states_total",
		Help:      "Ledger operations rejected by an invariant guard. Any increase needs investigation.",
	})
)

const (
	OutcomeOK                  = "ok"
	OutcomeInvalidRange        = "invalid_range"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeNotFound            = "not_found"
	OutcomeNotPending          = "not_pending"
	OutcomeNotAuthorized       = "not_authorized"
	OutcomeInconsistentState   = "inconsistent_state"
	OutcomeTransient           = "transient"
	OutcomeError               = "error"
)
