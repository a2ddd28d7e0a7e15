package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/internal/config"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

const TopicPortfolioEvents = "portfolio.events"

type KafkaProducerClient struct {
	PortfolioEventsWriter *kafka.Writer
	logger                logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'portfolio.events'
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicPortfolioEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))
	return &KafkaProducerClient{PortfolioEventsWriter: writer, logger: log}, nil
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

// PublishPortfolioEvent keys messages by user id so one user's events stay
// ordered within a partition.
func (c *KafkaProducerClient) PublishPortfolioEvent(ctx context.Context, evt service.PortfolioEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode portfolio event: %w", err)
	}
	err = c.PortfolioEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.UserID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventType, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		if err := c.PortfolioEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

// NewPortfolioEventsReader builds the consumer the worker reads saved
// portfolios from.
func NewPortfolioEventsReader(cfg config.Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicPortfolioEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// DecodePortfolioEvent parses a message from TopicPortfolioEvents.
func DecodePortfolioEvent(msg kafka.Message) (service.PortfolioEvent, error) {
	var evt service.PortfolioEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return service.PortfolioEvent{}, err
	}
	if evt.UserID == "" {
		evt.UserID = string(msg.Key)
	}
	return evt, nil
}
