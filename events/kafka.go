package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Govind-619/Wanderlust/utils"
	"github.com/IBM/sarama"
)

// DefaultTopic receives all booking events when none is configured.
const DefaultTopic = "booking-events"

var _ Publisher = (*KafkaPublisher)(nil)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a sync producer to brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	utils.LogInfo("Connected to Kafka brokers: %v", brokers)
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(p sarama.SyncProducer, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{producer: p, topic: topic}
}

// Publish sends the event keyed by order id so one order's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.OrderID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(e.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send %s for order %s: %w", e.Type, e.OrderID, err)
	}
	utils.LogDebug("Published %s for order %s to %s[%d]@%d", e.Type, e.OrderID, p.topic, partition, offset)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
