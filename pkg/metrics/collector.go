// Package metrics exposes the Prometheus instrumentation shared by the
// bot, the HTTP server and the background workers. Collectors register
// on the default registry, which the ops server serves at /metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ZoozFX/Telegram-1-sub000/internal/state"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates handled labeled by update kind and status",
		},
		[]string{"update", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of bot update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"update"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Total number of signup FSM transitions",
		},
		[]string{"from", "to"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by code and severity",
		},
		[]string{"code", "severity"},
	)
	submissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "submissions_recorded_total",
			Help: "Total number of free-text submissions stored",
		},
	)
	languageChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "language_changes_total",
			Help: "Total number of language switches labeled by chosen language",
		},
		[]string{"language"},
	)
	tasksProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_processed_total",
			Help: "Total number of background tasks processed labeled by type and status",
		},
		[]string{"type", "status"},
	)
	taskDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "task_duration_seconds",
			Help:    "Duration of background task processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)
	activeConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_conversations",
			Help: "Current number of users with stored FSM state",
		},
	)
	usersByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "users_by_state",
			Help: "Number of users per FSM state",
		},
		[]string{"state"},
	)
)

var trackedStates = []state.State{
	state.StateIdle,
	state.StateSignupName,
	state.StateSignupEmail,
	state.StateSignupPhone,
	state.StateSignupConfirm,
}

func init() {
	state.RegisterTransitionRecorder(RecordStateTransition)
}

// RecordUpdate increments update counters and records handling duration.
func RecordUpdate(update, status string, duration time.Duration) {
	if update == "" {
		update = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(update, status).Inc()
	updateDurationSeconds.WithLabelValues(update).Observe(duration.Seconds())
}

// RecordStateTransition tracks FSM transitions.
func RecordStateTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	stateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordError increments error counters with metadata.
func RecordError(code, severity string) {
	if code == "" {
		code = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(code, severity).Inc()
}

// RecordSubmission counts a stored free-text submission.
func RecordSubmission() {
	submissionsTotal.Inc()
}

// RecordLanguageChange counts a completed language switch.
func RecordLanguageChange(language string) {
	if language == "" {
		language = "unknown"
	}

	languageChangesTotal.WithLabelValues(language).Inc()
}

// RecordTask increments task counters and records processing duration.
func RecordTask(taskType, status string, duration time.Duration) {
	if taskType == "" {
		taskType = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	tasksProcessedTotal.WithLabelValues(taskType, status).Inc()
	taskDurationSeconds.WithLabelValues(taskType).Observe(duration.Seconds())
}

// SetActiveConversations updates the gauge for users holding FSM state.
func SetActiveConversations(count int) {
	activeConversations.Set(float64(count))
}

// SetUsersByState updates the gauge for the given state.
func SetUsersByState(stateLabel string, count int) {
	if stateLabel == "" {
		stateLabel = "unknown"
	}

	usersByState.WithLabelValues(stateLabel).Set(float64(count))
}

// StateCollector periodically gathers FSM state counts and emits gauge metrics.
type StateCollector struct {
	fsm state.StateMachine
}

// NewStateCollector builds a metrics collector bound to the provided FSM.
func NewStateCollector(fsm state.StateMachine) *StateCollector {
	return &StateCollector{fsm: fsm}
}

// Run polls the FSM every 10 seconds, updating conversation gauges until ctx is cancelled.
func (c *StateCollector) Run(ctx context.Context) {
	if c == nil || c.fsm == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		_ = c.collect(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Second):
		}
	}
}

func (c *StateCollector) collect(ctx context.Context) error {
	states, err := c.fsm.GetAllStates(ctx)
	if err != nil {
		return err
	}

	SetActiveConversations(len(states))

	stateCounts := make(map[string]int, len(states))
	for _, st := range states {
		label := "unknown"
		if st != nil && st.CurrentState != "" {
			label = string(st.CurrentState)
		}
		stateCounts[label]++
	}

	usersByState.Reset()

	for _, tracked := range trackedStates {
		label := string(tracked)
		SetUsersByState(label, stateCounts[label])
		delete(stateCounts, label)
	}

	for label, count := range stateCounts {
		SetUsersByState(label, count)
	}

	return nil
}
