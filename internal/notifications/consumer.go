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

// Consumer pulls grade notifications off Kafka and hands them to the
// email sender.
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topics           []string
	SessionTimeoutMs int
	HeartbeatMs      int
	OffsetOldest     bool
}

func DefaultConsumerConfig(brokers []string, topic, groupID string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          brokers,
		GroupID:          groupID,
		Topics:           []string{topic},
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		OffsetOldest:     false,
	}
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	sender        EmailSender
	cancel        context.CancelFunc
	log           *logger.Logger
}

func NewKafkaConsumer(config *ConsumerConfig, sender EmailSender) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		sender:        sender,
		log:           logger.GetDefault(),
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.consumerGroup.Errors() {
			c.log.Error("Kafka consumer error", slog.Any("error", err))
		}
	}()

	handler := &gradeNotificationHandler{sender: c.sender, log: c.log}

	for {
		// Consume blocks until a rebalance or cancellation; loop to rejoin
		if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
			return fmt.Errorf("consumer group session failed: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.consumerGroup.Close()
}

type gradeNotificationHandler struct {
	sender EmailSender
	log    *logger.Logger
}

func (h *gradeNotificationHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *gradeNotificationHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *gradeNotificationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var notification GradeNotification
		if err := json.Unmarshal(message.Value, &notification); err != nil {
			// Malformed messages are skipped, not retried
			h.log.Error("Dropping malformed grade notification",
				slog.Any("error", err),
				slog.Int64("offset", message.Offset),
			)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.sender.SendGradeNotification(session.Context(), &notification); err != nil {
			h.log.Error("Failed to deliver grade notification",
				slog.Any("error", err),
				slog.String("recipient", notification.RecipientEmail),
			)
		}
		session.MarkMessage(message, "")
	}
	return nil
}
