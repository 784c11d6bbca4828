package task

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/rezkam/dolist/internal/application/task"

// Transition names recorded on the transitions counter.
const (
	transitionCreate       = "create"
	transitionImportant    = "important"
	transitionColorCycle   = "color_cycle"
	transitionComplete     = "complete"
	transitionAutoComplete = "auto_complete"
	transitionRestore      = "restore"
	transitionDelete       = "delete"
)

type metrics struct {
	transitions         metric.Int64Counter
	remindersScheduled  metric.Int64Counter
	remindersRefused    metric.Int64Counter
	persistenceFailures metric.Int64Counter
}

// newMetrics registers the service instruments on the global meter provider.
// Instrument creation never fails fatally: the API falls back to no-op instruments.
func newMetrics() *metrics {
	meter := otel.Meter(meterName)

	transitions, _ := meter.Int64Counter("dolist.tasks.transitions",
		metric.WithDescription("Task lifecycle transitions applied"))
	scheduled, _ := meter.Int64Counter("dolist.reminders.scheduled",
		metric.WithDescription("Reminders scheduled for new tasks"))
	refused, _ := meter.Int64Counter("dolist.reminders.refused",
		metric.WithDescription("Reminders refused by the delay policy"))
	failures, _ := meter.Int64Counter("dolist.persistence.failures",
		metric.WithDescription("Repository writes that failed after a transition"))

	return &metrics{
		transitions:         transitions,
		remindersScheduled:  scheduled,
		remindersRefused:    refused,
		persistenceFailures: failures,
	}
}

func (m *metrics) transition(ctx context.Context, name string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("transition", name)))
}

func (m *metrics) reminder(ctx context.Context, scheduled bool) {
	if scheduled {
		m.remindersScheduled.Add(ctx, 1)
		return
	}
	m.remindersRefused.Add(ctx, 1)
}

func (m *metrics) persistenceFailure(ctx context.Context, op string) {
	m.persistenceFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
