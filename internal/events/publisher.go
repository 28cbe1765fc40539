package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/inventory-reservation/internal/metrics"
)

const (
	DefaultQueueSize = 1024

	drainTimeout = 5 * time.Second
)

// Sink delivers serialized events to their destination.
type Sink interface {
	Write(ctx context.Context, msg Message) error
	Close() error
}

// Publisher hands events to a sink on a single background worker. Publishing never blocks: when
// the queue is full the event is dropped and logged.
type Publisher struct {
	sink    Sink
	queue   chan Message
	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

func NewPublisher(sink Sink, queueSize int, logger *zap.Logger, m *metrics.Collector) *Publisher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		sink:    sink,
		queue:   make(chan Message, queueSize),
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (p *Publisher) PublishReservationEvent(_ context.Context, e ReservationEvent) {
	if e.Timestamp.IsZero() {
		e.Timestamp = p.now()
	}
	msg, err := e.message()
	if err != nil {
		p.logger.Error("failed to encode reservation event", zap.String("reservation_id", e.ReservationID), zap.Error(err))
		p.count(TopicReservations, "failed")
		return
	}
	p.enqueue(msg)
}

func (p *Publisher) PublishLowStockEvent(_ context.Context, productID string, stock int) {
	msg, err := LowStockEvent{ProductID: productID, Stock: stock, Timestamp: p.now()}.message()
	if err != nil {
		p.logger.Error("failed to encode low stock event", zap.String("product_id", productID), zap.Error(err))
		p.count(TopicLowStock, "failed")
		return
	}
	p.enqueue(msg)
}

func (p *Publisher) enqueue(msg Message) {
	select {
	case p.queue <- msg:
	default:
		p.logger.Error("event queue full, dropping event",
			zap.String("topic", msg.Topic),
			zap.String("key", msg.Key),
		)
		p.count(msg.Topic, "dropped")
	}
}

// Run delivers queued events until ctx is done, then flushes whatever is still queued.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-p.queue:
			p.deliver(ctx, msg)
		case <-ctx.Done():
			p.drain()
			return nil
		}
	}
}

func (p *Publisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case msg := <-p.queue:
			p.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, msg Message) {
	if err := p.sink.Write(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", msg.Topic),
			zap.String("key", msg.Key),
			zap.Error(err),
		)
		p.count(msg.Topic, "failed")
		return
	}
	p.logger.Debug("event published", zap.String("topic", msg.Topic), zap.String("key", msg.Key))
	p.count(msg.Topic, "published")
}

func (p *Publisher) count(topic, outcome string) {
	if p.metrics != nil {
		p.metrics.EventsOutcome.WithLabelValues(topic, outcome).Inc()
	}
}

// Close releases the sink. Call it after Run has returned. Events still queued at that point
// are logged and counted as dropped.
func (p *Publisher) Close() error {
	for len(p.queue) > 0 {
		msg := <-p.queue
		p.logger.Error("publisher closed, dropping undelivered event",
			zap.String("topic", msg.Topic),
			zap.String("key", msg.Key),
		)
		p.count(msg.Topic, "dropped")
	}
	return p.sink.Close()
}
