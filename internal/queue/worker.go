package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-tailor/internal/config"
	"github.com/jonathan/ats-tailor/internal/logging"
)

// Publisher sends results.
type Publisher interface {
	Publish(ctx context.Context, result Result) error
}

// Delivery is a consumed message that must be acknowledged or returned to the queue.
type Delivery interface {
	Body() []byte
	Ack() error
	Nack(requeue bool) error
}

// Worker consumes score requests and publishes results with a fixed pool of goroutines.
type Worker struct {
	cfg       config.AMQPConfig
	processor *Processor
	logger    *zap.Logger
}

// NewWorker creates a worker for cfg.
func NewWorker(cfg config.AMQPConfig, processor *Processor, logger *zap.Logger) *Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Worker{cfg: cfg, processor: processor, logger: logging.OrNop(logger)}
}

// Run connects to the broker and consumes until ctx is cancelled or the connection drops.
func (w *Worker) Run(ctx context.Context) error {
	conn, err := amqp.Dial(w.cfg.URL)
	if err != nil {
		return fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, w.cfg); err != nil {
		return err
	}
	if err := ch.Qos(w.cfg.Concurrency, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := ch.Consume(
		w.cfg.Queue, // queue
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming from %s: %w", w.cfg.Queue, err)
	}

	deliveries := make(chan Delivery)
	go func() {
		defer close(deliveries)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case deliveries <- amqpDelivery{msg}:
				case <-ctx.Done():
					_ = msg.Nack(false, true)
					return
				}
			}
		}
	}()

	w.logger.Info("worker consuming",
		zap.String("queue", w.cfg.Queue),
		zap.String("exchange", w.cfg.Exchange),
		zap.Int("concurrency", w.cfg.Concurrency))
	return w.Serve(ctx, deliveries, NewAMQPPublisher(ch, w.cfg.Exchange))
}

// Serve processes deliveries with cfg.Concurrency goroutines until the channel closes.
func (w *Worker) Serve(ctx context.Context, deliveries <-chan Delivery, pub Publisher) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.cfg.Concurrency; i++ {
		id := i + 1
		g.Go(func() error {
			for d := range deliveries {
				w.handle(ctx, id, d, pub)
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *Worker) handle(ctx context.Context, workerID int, d Delivery, pub Publisher) {
	result := w.processor.Process(ctx, d.Body())
	if ctx.Err() != nil {
		// Shutting down: the request may have been interrupted, so return it to the queue.
		w.logger.Warn("requeueing message on shutdown",
			zap.Int("worker", workerID), zap.String("request_id", result.RequestID))
		if err := d.Nack(true); err != nil {
			w.logger.Error("failed to requeue message", zap.Int("worker", workerID), zap.Error(err))
		}
		return
	}
	if _, err := retry(ctx, 3, func() (struct{}, error) {
		return struct{}{}, pub.Publish(ctx, result)
	}); err != nil {
		w.logger.Error("failed to publish result",
			zap.Int("worker", workerID), zap.String("request_id", result.RequestID), zap.Error(err))
	}
	if err := d.Ack(); err != nil {
		w.logger.Error("failed to ack message", zap.Int("worker", workerID), zap.Error(err))
	}
}

func declare(ch *amqp.Channel, cfg config.AMQPConfig) error {
	if _, err := ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // auto-delete
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}
	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	return nil
}

type amqpDelivery struct {
	msg amqp.Delivery
}

func (d amqpDelivery) Body() []byte { return d.msg.Body }
func (d amqpDelivery) Ack() error   { return d.msg.Ack(false) }

func (d amqpDelivery) Nack(requeue bool) error { return d.msg.Nack(false, requeue) }

// AMQPPublisher publishes results to a topic exchange keyed by request ID.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher publishes on ch. Publishing is serialized.
func NewAMQPPublisher(ch *amqp.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

// Publish sends result with routing key score.<request_id>.
func (p *AMQPPublisher) Publish(_ context.Context, result Result) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Publish(
		p.exchange,
		RoutingKey(result.RequestID),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}
