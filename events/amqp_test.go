package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	declared   string
	durable    bool
	declareErr error
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.declared = name
	f.durable = durable
	return amqp.Queue{Name: name}, f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newAMQPPublisher(ch, "case_events")
	require.NoError(t, err)
	assert.Equal(t, "case_events", ch.declared)
	assert.True(t, ch.durable)

	e := New(CaseAssigned, "case1", "actor1", map[string]interface{}{"assignedTo": "u1"})
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "case_events", ch.keys[0])
	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, CaseAssigned, msg.Type)

	var got Event
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, "case1", got.CaseID)
	assert.Equal(t, "u1", got.Data["assignedTo"])

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_Errors(t *testing.T) {
	_, err := newAMQPPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "q")
	assert.ErrorContains(t, err, "failed to declare queue")

	p, err := newAMQPPublisher(&fakeChannel{publishErr: errors.New("channel closed")}, "q")
	require.NoError(t, err)
	err = p.Publish(context.Background(), New(CaseClosed, "c", "a", nil))
	assert.ErrorContains(t, err, "failed to publish message")
}
