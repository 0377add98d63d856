// Package kafka contains the audit event producer
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// AuditProducer publishes operation summaries to Kafka using an asynchronous
// producer. Delivery is best effort: a failed audit event is logged and
// dropped, it never fails the user-facing operation.
type AuditProducer struct {
	producer  sarama.AsyncProducer
	topic     string
	logger    zerolog.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// ProducerConfig holds configuration for the audit producer
type ProducerConfig struct {
	Brokers []string
	Topic   string
	Logger  zerolog.Logger
}

// NewAuditProducer creates a new Kafka audit producer
//
// Configuration highlights:
// - Asynchronous producer, audit volume never blocks operations
// - Snappy compression
// - Idempotent mode for at-least-once delivery with deduplication
// - Hash partitioner on account_id for per-account ordering
func NewAuditProducer(cfg ProducerConfig) (*AuditProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Producer.RequiredAcks = sarama.WaitForAll // Required for idempotent producer
	config.Net.MaxOpenRequests = 1                   // Required for idempotent producer
	config.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p := &AuditProducer{
		producer: producer,
		topic:    cfg.Topic,
		logger:   cfg.Logger.With().Str("component", "audit_producer").Logger(),
	}

	p.wg.Add(2)
	go p.handleSuccesses()
	go p.handleErrors()

	p.logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka audit producer initialized")

	return p, nil
}

// Publish queues one audit event for sending
func (p *AuditProducer) Publish(ctx context.Context, event domain.AuditEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.AccountID, 10)),
		Value: sarama.ByteEncoder(value),
	}

	select {
	case p.producer.Input() <- msg:
		p.logger.Debug().
			Str("operation_id", event.OperationID).
			Str("operation", event.Operation).
			Msg("audit event queued")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while queueing audit event: %w", ctx.Err())
	}
}

func (p *AuditProducer) handleSuccesses() {
	defer p.wg.Done()
	for range p.producer.Successes() {
	}
}

func (p *AuditProducer) handleErrors() {
	defer p.wg.Done()
	for err := range p.producer.Errors() {
		p.logger.Warn().Err(err.Err).Msg("audit event delivery failed")
	}
}

// Close shuts the producer down, flushing queued events
func (p *AuditProducer) Close() error {
	p.closeOnce.Do(func() {
		p.producer.AsyncClose()
		p.wg.Wait()
	})
	return p.closeErr
}

var _ domain.AuditProducer = (*AuditProducer)(nil)

// NoopProducer satisfies domain.AuditProducer when Kafka is not configured
type NoopProducer struct{}

func (NoopProducer) Publish(ctx context.Context, event domain.AuditEvent) error { return nil }
func (NoopProducer) Close() error                                               { return nil }

var _ domain.AuditProducer = (*NoopProducer)(nil)
