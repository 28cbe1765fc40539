package events

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type fakeProducer struct {
	written []kafka.Message
	closed  bool
}

func (f *fakeProducer) WriteMessage(_ context.Context, msg kafka.Message) error {
	f.written = append(f.written, msg)
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSink_MapsMessage(t *testing.T) {
	producer := &fakeProducer{}
	sink := &KafkaSink{producer: producer}

	require.NoError(t, sink.Write(context.Background(), Message{Topic: TopicReservations, Key: "p1", Value: []byte(`{}`)}))
	require.NoError(t, sink.Close())

	require.Len(t, producer.written, 1)
	assert.Equal(t, TopicReservations, producer.written[0].Topic)
	assert.Equal(t, []byte("p1"), producer.written[0].Key)
	assert.Equal(t, []byte(`{}`), producer.written[0].Value)
	assert.True(t, producer.closed)
}

func TestNewKafkaSink_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaSink(nil, noop.NewTracerProvider())
	assert.Error(t, err)
}
