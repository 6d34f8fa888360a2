package notifications

import (
	"context"
	"log/slog"

	"gradehub/internal/shared/config"
	"gradehub/pkg/logger"
)

// Service bundles the producer and consumer sides of the grade
// notification pipeline. When Kafka is disabled it degrades to a
// log-only producer and no consumer, so the rest of the application is
// indifferent to whether a broker exists.
type Service struct {
	Producer Producer
	consumer Consumer
	log      *logger.Logger
}

func NewService(cfg *config.Config) (*Service, error) {
	log := logger.GetDefault()

	if !cfg.Kafka.Enabled {
		log.Info("Kafka disabled, grade notifications will be logged only")
		return &Service{
			Producer: NewLogProducer(),
			log:      log,
		}, nil
	}

	producer, err := NewKafkaProducer(DefaultProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	if err != nil {
		return nil, err
	}

	sender := NewSMTPSender(cfg.Email)
	consumer, err := NewKafkaConsumer(DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID), sender)
	if err != nil {
		producer.Close()
		return nil, err
	}

	return &Service{
		Producer: producer,
		consumer: consumer,
		log:      log,
	}, nil
}

// Start runs the consumer until ctx is cancelled. No-op when Kafka is
// disabled.
func (s *Service) Start(ctx context.Context) error {
	if s.consumer == nil {
		return nil
	}
	s.log.Info("Starting grade notification consumer")
	if err := s.consumer.Start(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("Notification consumer stopped", slog.Any("error", err))
		return err
	}
	return nil
}

func (s *Service) Stop() error {
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			return err
		}
	}
	return s.Producer.Close()
}
