package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"gradehub/pkg/logger"
)

// Producer publishes grade notifications for asynchronous delivery.
type Producer interface {
	PublishGradeNotification(ctx context.Context, notification *GradeNotification) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka producer
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	TimeoutMs    int
	RequiredAcks sarama.RequiredAcks
}

func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:      brokers,
		Topic:        topic,
		RetryMax:     3,
		TimeoutMs:    10000,
		RequiredAcks: sarama.WaitForAll,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	// Hash partitioner keeps each student's notifications in order
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    config.Topic,
	}, nil
}

func (p *kafkaProducer) PublishGradeNotification(ctx context.Context, notification *GradeNotification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(notification.RecipientID.String()),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}

// logProducer is the fallback when Kafka is disabled: events are logged
// and dropped so grading never depends on the broker.
type logProducer struct {
	log *logger.Logger
}

func NewLogProducer() Producer {
	return &logProducer{log: logger.GetDefault()}
}

func (p *logProducer) PublishGradeNotification(ctx context.Context, notification *GradeNotification) error {
	p.log.InfoContext(ctx, "Grade notification (kafka disabled)",
		slog.String("submission_id", notification.SubmissionID.String()),
		slog.String("recipient", notification.RecipientEmail),
		slog.Float64("grade", notification.Grade),
	)
	return nil
}

func (p *logProducer) Close() error {
	return nil
}
