package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

var jsonMarshal = json.Marshal

const queueSize = 1000

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	closeChan chan struct{}
	done      chan struct{}
	now       func() time.Time
}

func NewProducer(brokers []string, topic string) *Producer {
	return newProducer(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Topic:                  topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           10 * time.Second,
	}, queueSize)
}

func newProducer(w KafkaWriter, size int) *Producer {
	p := &Producer{
		writer:    w,
		events:    make(chan Event, size),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
		now:       time.Now,
	}
	go p.eventLoop()
	return p
}

func (p *Producer) Publish(eventType EventType, key string, payload interface{}) {
	select {
	case p.events <- Event{Type: eventType, Key: key, OccurredAt: p.now().UTC(), Payload: payload}:
	default:
		slog.Warn("Kafka producer queue full, dropping event",
			"event_type", string(eventType),
			"key", key,
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			// Flush whatever is still buffered
			for {
				select {
				case event := <-p.events:
					p.sendEvent(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		slog.Error("Failed to serialize event",
			"error", err,
			"event_type", string(event.Type),
			"key", event.Key,
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		slog.Error("Failed to produce event",
			"error", err,
			"event_type", string(event.Type),
			"key", event.Key,
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		slog.Error("Failed to close Kafka writer", "error", err)
	}
}
