// AngelaMos | 2026
// kafka_test.go

package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/liftlog/liftlog-api/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestPublisher() (*KafkaPublisher, map[string]*recordingWriter) {
	p := NewKafkaPublisher(config.KafkaConfig{
		Brokers:           []string{"localhost:9092"},
		RecordsTopic:      "records",
		SubscriptionTopic: "subs",
		WriteTimeout:      time.Second,
	})
	writers := make(map[string]*recordingWriter)
	p.newWriter = func(topic string) messageWriter {
		w := &recordingWriter{}
		writers[topic] = w
		return w
	}
	return p, writers
}

func TestKafkaPublisherRoutesByType(t *testing.T) {
	p, writers := newTestPublisher()

	err := p.Publish(context.Background(),
		Event{
			Type:       TypePersonalRecordAchieved,
			Key:        "user-1",
			OccurredAt: time.Now(),
			Payload:    PersonalRecordAchieved{RecordID: "r1", Lift: "Squat", Weight: 200, Reps: 1},
		},
		Event{
			Type:    TypeSubscriptionChanged,
			Key:     "user-1",
			Payload: SubscriptionChanged{UserID: "user-1", From: "trial", To: "active"},
		},
	)
	require.NoError(t, err)

	require.Contains(t, writers, "records")
	require.Contains(t, writers, "subs")
	require.Len(t, writers["records"].msgs, 1)

	msg := writers["records"].msgs[0]
	assert.Equal(t, []byte("user-1"), msg.Key)
	assert.Equal(t, "event_type", msg.Headers[0].Key)

	var decoded struct {
		Type    string                 `json:"type"`
		Payload PersonalRecordAchieved `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, TypePersonalRecordAchieved, decoded.Type)
	assert.Equal(t, 200.0, decoded.Payload.Weight)

	require.NoError(t, p.Close())
	assert.True(t, writers["records"].closed)
}

func TestKafkaPublisherUnknownType(t *testing.T) {
	p, _ := newTestPublisher()
	err := p.Publish(context.Background(), Event{Type: "nope"})
	require.Error(t, err)
}

func TestKafkaPublisherWriteError(t *testing.T) {
	p, _ := newTestPublisher()
	p.newWriter = func(string) messageWriter {
		return &recordingWriter{err: errors.New("broker down")}
	}

	err := p.Publish(context.Background(), Event{Type: TypeSubscriptionChanged, Key: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewPublisherDisabled(t *testing.T) {
	pub := NewPublisher(config.KafkaConfig{Enabled: false})
	assert.IsType(t, NopPublisher{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), Event{Type: "x"}))
}
