package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

// captureLogs swaps the default slog logger for the duration of a test.
func captureLogs(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProducer_PublishAndFlushOnClose(t *testing.T) {
	w := new(MockKafkaWriter)
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	w.On("Close").Return(nil)

	p := newProducer(w, 10)
	p.Publish(PayrollPaid, "payroll-1", map[string]string{"employee_id": "emp-1"})
	p.Publish(LeaveReviewed, "leave-1", map[string]string{"status": "approved"})
	p.Close()

	w.AssertNumberOfCalls(t, "WriteMessages", 2)
	w.AssertCalled(t, "Close")

	msgs := w.Calls[0].Arguments.Get(1).([]kafka.Message)
	require.Len(t, msgs, 1)
	assert.Equal(t, "payroll-1", string(msgs[0].Key))
	assert.Equal(t, "payroll.paid", string(msgs[0].Headers[0].Value))

	var decoded struct {
		Type    string            `json:"type"`
		Key     string            `json:"key"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msgs[0].Value, &decoded))
	assert.Equal(t, "payroll.paid", decoded.Type)
	assert.Equal(t, "emp-1", decoded.Payload["employee_id"])
}

type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	writes  int
}

func (b *blockingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	<-b.release
	b.mu.Lock()
	b.writes++
	b.mu.Unlock()
	return nil
}

func (b *blockingWriter) Close() error { return nil }

func TestProducer_DropsWhenQueueFull(t *testing.T) {
	logs := captureLogs(t)
	w := &blockingWriter{release: make(chan struct{})}

	p := &Producer{
		writer:    w,
		events:    make(chan Event, 1),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
		now:       time.Now,
	}

	// Fill the buffer without a consumer, then overflow it
	p.Publish(EmployeeOnboarded, "emp-1", nil)
	p.Publish(EmployeeOnboarded, "emp-2", nil)

	assert.Contains(t, logs.String(), "Kafka producer queue full, dropping event")
	assert.Contains(t, logs.String(), "emp-2")

	go p.eventLoop()
	close(w.release)
	p.Close()

	assert.Equal(t, 1, w.writes)
}

func TestProducer_SendEventErrors(t *testing.T) {
	t.Run("write error", func(t *testing.T) {
		logs := captureLogs(t)
		w := new(MockKafkaWriter)
		w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		p := &Producer{writer: w}
		p.sendEvent(context.Background(), Event{Type: PayrollCreated, Key: "p-1"})

		assert.Contains(t, logs.String(), "Failed to produce event")
	})

	t.Run("serialization error", func(t *testing.T) {
		logs := captureLogs(t)
		w := new(MockKafkaWriter)

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		p := &Producer{writer: w}
		p.sendEvent(context.Background(), Event{Type: PayrollCreated, Key: "p-1"})

		assert.Contains(t, logs.String(), "Failed to serialize event")
		w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	p.Publish(PayrollPaid, "x", nil)
	p.Close()
}
