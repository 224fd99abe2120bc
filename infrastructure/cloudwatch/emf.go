// Package cloudwatch writes metrics in the CloudWatch Embedded Metric Format.
//
// Each metric is one JSON document on its own line. Locally the documents go to
// stdout; in the platform they are sent to the CloudWatch agent listening on
// AWS_EMF_AGENT_ENDPOINT, which extracts the metrics from the log stream.
package cloudwatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"pair-programming-backend/shared/common/config"
	"pair-programming-backend/shared/common/logger"
)

type Unit string

const (
	UnitCount        Unit = "Count"
	UnitMilliseconds Unit = "Milliseconds"
	UnitSeconds      Unit = "Seconds"
)

const (
	localEnvironment = "local"
	// queueSize bounds the documents waiting for the sink; beyond it metrics are dropped.
	queueSize = 1024
)

var (
	errClosed    = errors.New("emf emitter is closed")
	errQueueFull = errors.New("emf queue is full, metric dropped")
)

type Options struct {
	Enabled       bool
	Environment   string
	AgentEndpoint string
	Namespace     string
	ServiceName   string
	ServiceType   string
	LogGroupName  string
	LogStreamName string
}

func OptionsFromConfig(cfg *config.AppConfig) Options {
	return Options{
		Enabled:       cfg.EnableMetrics,
		Environment:   cfg.EMFEnvironment,
		AgentEndpoint: cfg.EMFAgentEndpoint,
		Namespace:     cfg.EMFNamespace,
		ServiceName:   cfg.EMFServiceName,
		ServiceType:   cfg.EMFServiceType,
		LogGroupName:  cfg.EMFLogGroupName,
		LogStreamName: cfg.EMFLogStreamName,
	}
}

// Sink receives one serialized EMF document per call.
type Sink interface {
	Write(doc []byte) error
	Close() error
}

// Emitter queues documents for a single writer goroutine that owns the sink,
// so a slow or unreachable agent never blocks the caller.
type Emitter struct {
	mu     sync.Mutex
	opts   Options
	sink   Sink
	queue  chan []byte
	done   chan struct{}
	closed bool
	now    func() time.Time
}

// NewEmitter picks the sink from opts. A disabled emitter accepts and drops every metric.
func NewEmitter(opts Options) (*Emitter, error) {
	if !opts.Enabled {
		return &Emitter{opts: opts, now: time.Now}, nil
	}

	var sink Sink
	if opts.Environment == localEnvironment {
		sink = NewWriterSink(os.Stdout)
	} else {
		agent, err := NewAgentSink(opts.AgentEndpoint)
		if err != nil {
			return nil, err
		}
		sink = agent
	}

	logger.Info("EMF metrics enabled",
		logger.WithString("environment", opts.Environment),
		logger.WithString("namespace", opts.Namespace))
	return NewEmitterWithSink(opts, sink), nil
}

func NewEmitterWithSink(opts Options, sink Sink) *Emitter {
	return newEmitter(opts, sink, queueSize)
}

func newEmitter(opts Options, sink Sink, size int) *Emitter {
	e := &Emitter{
		opts:  opts,
		sink:  sink,
		queue: make(chan []byte, size),
		done:  make(chan struct{}),
		now:   time.Now,
	}
	go e.run()
	return e
}

func (e *Emitter) run() {
	defer close(e.done)
	for doc := range e.queue {
		if err := e.sink.Write(doc); err != nil {
			logger.Warn("Error writing EMF document", logger.WithError(err))
		}
	}
}

func (e *Emitter) Enabled() bool {
	return e.sink != nil
}

// PutMetric queues a single value under the service dimensions. It never waits
// for the sink and returns errQueueFull when the document had to be dropped.
func (e *Emitter) PutMetric(ctx context.Context, name string, value float64, unit Unit) error {
	if e.sink == nil {
		return nil
	}

	doc, err := json.Marshal(e.document(ctx, name, value, unit))
	if err != nil {
		return fmt.Errorf("encoding emf document: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return errClosed
	}
	select {
	case e.queue <- append(doc, '\n'):
		return nil
	default:
		return errQueueFull
	}
}

// Count implements metrics.Recorder. Emission failures are logged, not returned.
func (e *Emitter) Count(ctx context.Context, name string, value float64) {
	if err := e.PutMetric(ctx, name, value, UnitCount); err != nil {
		logger.Warn("Error emitting metric",
			logger.WithString("metric", name),
			logger.WithError(err))
	}
}

// Close flushes the queued documents and closes the sink.
func (e *Emitter) Close() error {
	e.mu.Lock()
	if e.closed || e.sink == nil {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	<-e.done
	return e.sink.Close()
}

func (e *Emitter) document(ctx context.Context, name string, value float64, unit Unit) map[string]interface{} {
	directive := map[string]interface{}{
		"Timestamp": e.now().UnixMilli(),
		"CloudWatchMetrics": []map[string]interface{}{{
			"Namespace":  e.opts.Namespace,
			"Dimensions": [][]string{{"ServiceName", "ServiceType"}},
			"Metrics":    []map[string]string{{"Name": name, "Unit": string(unit)}},
		}},
	}
	if e.opts.LogGroupName != "" {
		directive["LogGroupName"] = e.opts.LogGroupName
	}
	if e.opts.LogStreamName != "" {
		directive["LogStreamName"] = e.opts.LogStreamName
	}

	doc := map[string]interface{}{
		"_aws":        directive,
		"ServiceName": e.opts.ServiceName,
		"ServiceType": e.opts.ServiceType,
		name:          value,
	}
	if id := logger.RequestID(ctx); id != "" {
		doc["RequestId"] = id
	}
	return doc
}
