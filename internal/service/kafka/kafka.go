package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/kotche/notekeeper/internal/config"
)

const commitInterval = time.Second

type Broker struct {
	producer *kafka.Writer
	consumer *kafka.Reader
}

// NewBroker ensures the note-event topic exists on every configured broker,
// then opens the producer and consumer sides.
func NewBroker(cfg config.KafkaConfig, numPartitions, replicationFactor int) (*Broker, error) {
	for _, addr := range cfg.Brokers {
		if err := ensureTopic(addr, cfg.Topic, numPartitions, replicationFactor); err != nil {
			return nil, err
		}
	}

	return &Broker{
		producer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
		},
		consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.Brokers,
			Topic:          cfg.Topic,
			GroupID:        cfg.GroupID,
			CommitInterval: commitInterval,
		}),
	}, nil
}

func (b *Broker) SendMessage(ctx context.Context, key, value []byte) error {
	if err := b.producer.WriteMessages(ctx, kafka.Message{Key: key, Value: value}); err != nil {
		return fmt.Errorf("failed to send message to kafka: %w", err)
	}
	return nil
}

func (b *Broker) ReadMessage(ctx context.Context) (key, value []byte, err error) {
	msg, err := b.consumer.ReadMessage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read message from kafka: %w", err)
	}
	return msg.Key, msg.Value, nil
}

func (b *Broker) Close() error {
	if err := b.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	if err := b.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka consumer: %w", err)
	}
	return nil
}

func ensureTopic(broker, topic string, numPartitions, replicationFactor int) error {
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return fmt.Errorf("failed to connect to kafka broker '%s': %w", broker, err)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	})
	if err != nil {
		if errors.Is(err, kafka.TopicAlreadyExists) {
			log.Printf("kafka topic '%s' already exists", topic)
			return nil
		}
		return fmt.Errorf("failed to create kafka topic '%s': %w", topic, err)
	}

	log.Printf("kafka topic '%s' created", topic)
	return nil
}
