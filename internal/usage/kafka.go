package usage

import (
	"context"
	"encoding/json"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

const DefaultTopic = "signoff.usage"

type kafkaQueue struct {
	w *kafka.Writer
}

// NewKafka publishes records to a Kafka topic, keyed by org so one
// tenant's records stay ordered within a partition.
func NewKafka(brokers []string, topic string) Queue {
	if len(brokers) == 0 {
		return NewNoop()
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafkaQueue{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (q *kafkaQueue) Publish(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return q.w.WriteMessages(ctx, kafka.Message{Key: []byte(rec.OrgID), Value: b})
}

func (q *kafkaQueue) Close() error { return q.w.Close() }
