package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/streadway/amqp"

	"estate/internal/model"
)

// AuditSink receives contact disclosure events. Persisting them is the
// sink's business, not the engine's.
type AuditSink interface {
	Publish(ctx context.Context, event model.ContactDisclosed) error
}

// Auditor forwards events without blocking the caller
type Auditor interface {
	Dispatch(event model.ContactDisclosed)
}

// LogSink writes events to the standard logger
type LogSink struct{}

// Publish implements AuditSink
func (LogSink) Publish(_ context.Context, event model.ContactDisclosed) error {
	log.Printf("📝 Audit contact_disclosed: listing=%d user=%d role=%s session=%s at=%s",
		event.ListingID, event.UserID, event.Role, event.SessionID, event.RevealedAt.Format(time.RFC3339))
	return nil
}

// AMQPSink publishes events to a durable RabbitMQ queue
type AMQPSink struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
}

// NewAMQPSink dials the broker and declares the audit queue
func NewAMQPSink(url, queueName string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if queueName == "" {
		queueName = "contact_disclosed"
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Printf("✅ Audit queue '%s' declared", queueName)
	return &AMQPSink{connection: conn, channel: ch, queueName: queueName}, nil
}

// Publish implements AuditSink
func (s *AMQPSink) Publish(_ context.Context, event model.ContactDisclosed) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.channel.Publish(
		"",          // exchange
		s.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.RevealedAt,
			Type:         "contact_disclosed",
			Body:         body,
		},
	)
}

// Close closes the channel and connection
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.channel.Close(); err != nil {
		s.connection.Close()
		return err
	}
	return s.connection.Close()
}

// AsyncAuditor hands events to a sink on a bounded, non-blocking goroutine pool
type AsyncAuditor struct {
	sink    AuditSink
	pool    *ants.Pool
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncAuditor creates an auditor with at most size concurrent publishes.
// When the pool is saturated the event is logged locally instead of queued.
func NewAsyncAuditor(sink AuditSink, size int) (*AsyncAuditor, error) {
	if size < 1 {
		size = 1
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &AsyncAuditor{sink: sink, pool: pool, timeout: 5 * time.Second}, nil
}

// Dispatch implements Auditor
func (a *AsyncAuditor) Dispatch(event model.ContactDisclosed) {
	a.wg.Add(1)
	err := a.pool.Submit(func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.sink.Publish(ctx, event); err != nil {
			log.Printf("❌ Failed to publish audit event for listing %d: %v", event.ListingID, err)
			_ = LogSink{}.Publish(ctx, event)
		}
	})
	if err != nil {
		a.wg.Done()
		log.Printf("⚠️  Audit pool unavailable (%v), logging event locally", err)
		_ = LogSink{}.Publish(context.Background(), event)
	}
}

// Close waits for in-flight events and releases the pool
func (a *AsyncAuditor) Close() {
	a.wg.Wait()
	a.pool.Release()
}
