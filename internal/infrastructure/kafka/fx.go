// Package kafka contains the audit event producer
package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/config"
	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

var Module = fx.Module(
	"kafka",
	fx.Provide(NewAuditProducerFx),
)

// NewAuditProducerFx provides the audit producer, degrading to a no-op when
// no brokers are configured.
func NewAuditProducerFx(lc fx.Lifecycle, cfg *config.KafkaConfig, logger zerolog.Logger) (domain.AuditProducer, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("kafka brokers not configured, audit events disabled")
		return NoopProducer{}, nil
	}

	producer, err := NewAuditProducer(ProducerConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.AuditTopic,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
