package app

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vtree/pkg/events"
)

const defaultTracerName = "vtree"

// Option configures an App.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	actions events.Actions
	after   []func(Pass)
}

func defaultConfig() config {
	return config{
		logger: slog.Default().With("component", "app"),
		tracer: otel.Tracer(defaultTracerName),
	}
}

// WithLogger sets the logger. The App adds a component attribute.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l.With("component", "app")
		}
	}
}

// WithMetrics records pass metrics into m. Several Apps may share one m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracerName traces passes with the named tracer of the global
// provider.
func WithTracerName(name string) Option {
	return func(c *config) {
		c.tracer = otel.Tracer(name)
	}
}

// WithTracer traces passes with t.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}

// WithActions binds the data-on-* listener attributes of every rendered
// tree to actions, making the tree reachable through Dispatch.
func WithActions(actions events.Actions) Option {
	return func(c *config) {
		c.actions = actions
	}
}

// WithAfterPass registers fn to run after every pass, successful or not.
// Streams use it to flush recorded patches.
func WithAfterPass(fn func(Pass)) Option {
	return func(c *config) {
		c.after = append(c.after, fn)
	}
}
