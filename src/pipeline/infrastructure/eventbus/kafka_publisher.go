package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// eventEnvelope es el sobre común de los eventos publicados
type eventEnvelope struct {
	EventType  string      `json:"event_type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// kafkaMessageWriter abstrae kafka.Writer para poder inyectar fakes en tests
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publica eventos de dominio en un topic de Kafka.
// Cliente pure-Go (segmentio/kafka-go).
type KafkaPublisher struct {
	writer kafkaMessageWriter
}

// NewKafkaPublisher crea un publisher contra el broker.
// bootstrap puede ser una lista host:port separada por comas.
func NewKafkaPublisher(bootstrap string, topic string) *KafkaPublisher {
	addrs := strings.Split(bootstrap, ",")
	var brokers []string
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

// NewKafkaPublisherWith es solo para tests, permite inyectar un writer fake
func NewKafkaPublisherWith(w kafkaMessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish serializa el evento y lo escribe en el topic, particionado por key
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	envelope := eventEnvelope{
		EventType:  eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	}

	b, err := json.Marshal(&envelope)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: b,
	})
}

// Close libera las conexiones del writer subyacente
func (p *KafkaPublisher) Close() error {
	if w, ok := p.writer.(*kafka.Writer); ok {
		return w.Close()
	}
	return nil
}
