// AngelaMos | 2026
// kafka.go

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/multierr"

	"github.com/liftlog/liftlog-api/internal/config"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher routes events to topics by type and keeps one writer per
// topic.
type KafkaPublisher struct {
	brokers      []string
	topics       map[string]string
	writeTimeout time.Duration

	mu        sync.Mutex
	writers   map[string]messageWriter
	newWriter func(topic string) messageWriter
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	p := &KafkaPublisher{
		brokers: cfg.Brokers,
		topics: map[string]string{
			TypePersonalRecordAchieved: cfg.RecordsTopic,
			TypeSubscriptionChanged:    cfg.SubscriptionTopic,
		},
		writeTimeout: cfg.WriteTimeout,
		writers:      make(map[string]messageWriter),
	}
	p.newWriter = p.kafkaWriter
	return p
}

// NewPublisher returns a Kafka publisher when enabled, otherwise a no-op.
func NewPublisher(cfg config.KafkaConfig) Publisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	return NewKafkaPublisher(cfg)
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	byTopic := make(map[string][]kafka.Message)

	for _, e := range events {
		topic, ok := p.topics[e.Type]
		if !ok || topic == "" {
			return fmt.Errorf("publish %s: no topic configured", e.Type)
		}

		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", e.Type, err)
		}

		byTopic[topic] = append(byTopic[topic], kafka.Message{
			Key:   []byte(e.Key),
			Value: value,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(e.Type)},
			},
		})
	}

	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	for topic, msgs := range byTopic {
		if err := p.writerFor(topic).WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write to %s: %w", topic, err)
		}
	}

	return nil
}

func (p *KafkaPublisher) writerFor(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

func (p *KafkaPublisher) kafkaWriter(topic string) messageWriter {
	return &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: false,
	}
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	for topic, w := range p.writers {
		err = multierr.Append(err, w.Close())
		delete(p.writers, topic)
	}
	return err
}
