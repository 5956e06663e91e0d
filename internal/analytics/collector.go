package analytics

import (
	"context"
	"log/slog"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/kafka"
)

// Collector buffers events and publishes them to Kafka off the request
// path. When the buffer is full, events are dropped rather than blocking a
// request.
type Collector struct {
	producer *kafka.Producer
	eventCh  chan interface{}
	logger   *slog.Logger
	done     chan struct{}
}

// NewCollector creates a Collector with the given buffer size.
func NewCollector(producer *kafka.Producer, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		producer: producer,
		eventCh:  make(chan interface{}, bufferSize),
		logger:   slog.Default().With("component", "analytics-collector"),
		done:     make(chan struct{}),
	}
}

// Start launches the publish loop. It drains buffered events when ctx is
// cancelled.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				if err := c.producer.Publish(ctx, kafka.Event{
					Key:   "analytics",
					Value: event,
				}); err != nil {
					c.logger.Error("failed to publish analytics event", "error", err)
				}
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event without blocking.
func (c *Collector) Track(event interface{}) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Close stops the publish loop after the buffer empties.
func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			if err := c.producer.Publish(context.Background(), kafka.Event{
				Key:   "analytics",
				Value: event,
			}); err != nil {
				c.logger.Error("failed to publish remaining event", "error", err)
			}
		default:
			return
		}
	}
}
