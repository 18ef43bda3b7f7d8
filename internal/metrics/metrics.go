// Package metrics exports bridge activity as Prometheus metrics.
package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/moffa90/go-i2cbridge/bridge"
	"github.com/moffa90/go-i2cbridge/protocol"
)

const namespace = "i2cbridge"

// Error classes used as the "class" label of the errors counter.
const (
	ClassParse      = "parse"
	ClassNoAddress  = "no_address"
	ClassNoResponse = "no_response"
	ClassBus        = "bus"
	ClassOther      = "other"
)

// Collector accumulates bridge events on its own registry.
type Collector struct {
	registry *prometheus.Registry

	commands     *prometheus.CounterVec
	errors       *prometheus.CounterVec
	busResults   *prometheus.CounterVec
	bytesWritten prometheus.Counter
	bytesRead    prometheus.Counter
	duration     *prometheus.HistogramVec
}

// New creates a Collector with the Go runtime and process collectors registered.
//
// Example:
//
//	m := metrics.New()
//	b := bridge.New(sim, bridge.WithEventCallback(m.Observe))
//	go metrics.Serve(ctx, ":9100", m.Handler())
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Protocol lines handled, by command and outcome.",
			},
			[]string{"command", "outcome"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Errors reported on the diagnostic channel, by class.",
			},
			[]string{"class"},
		),
		busResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bus_failures_total",
				Help:      "Failed bus write transactions, by result code.",
			},
			[]string{"code"},
		),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Payload bytes acknowledged by the bus.",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_read_total",
			Help:      "Bytes returned on the data channel.",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Time spent executing a protocol line.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"command"},
		),
	}

	c.registry.MustRegister(
		c.commands,
		c.errors,
		c.busResults,
		c.bytesWritten,
		c.bytesRead,
		c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the registry the collector's metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records one bridge event. It has the bridge.EventCallback signature.
func (c *Collector) Observe(e bridge.Event) {
	command := e.Kind.String()

	outcome := "ok"
	if !e.OK() {
		outcome = "error"
	}

	c.commands.WithLabelValues(command, outcome).Inc()
	c.duration.WithLabelValues(command).Observe(e.Duration.Seconds())
	c.bytesWritten.Add(float64(e.BytesWritten))
	c.bytesRead.Add(float64(e.BytesRead))

	for _, err := range e.Errors {
		class := Classify(err)
		c.errors.WithLabelValues(class).Inc()
		if class == ClassBus {
			code := bridge.ResultCodeOf(err)
			c.busResults.WithLabelValues(strings.ReplaceAll(code.String(), " ", "_")).Inc()
		}
	}
}

// Classify maps a bridge error to its metrics class.
func Classify(err error) string {
	switch {
	case protocol.IsParseError(err):
		return ClassParse
	case errors.Is(err, bridge.ErrNoAddressSet):
		return ClassNoAddress
	case errors.Is(err, bridge.ErrNoDeviceResponse):
		return ClassNoResponse
	case bridge.IsBusError(err):
		return ClassBus
	default:
		return ClassOther
	}
}
