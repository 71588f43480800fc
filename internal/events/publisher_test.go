// AngelaMos | 2026
// publisher_test.go

package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) ExchangeDeclare(
	name, kind string,
	durable, autoDelete, internal, noWait bool,
	args amqp.Table,
) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *mockChannel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func TestPublishEnvelope(t *testing.T) {
	ch := &mockChannel{}
	ch.On("ExchangeDeclare", "storefront", "topic", true, false, false, false, amqp.Table(nil)).
		Return(nil)

	var sent amqp.Publishing
	ch.On("PublishWithContext", mock.Anything, "storefront", "order.created", false, false, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(5).(amqp.Publishing)
		}).
		Return(nil)

	p, err := newPublisher(ch, "storefront")
	require.NoError(t, err)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	err = p.Publish(context.Background(), "order.created", map[string]string{"order_id": "o1"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	assert.Equal(t, "order.created", sent.Type)
	assert.NotEmpty(t, sent.MessageId)

	var env struct {
		ID         string            `json:"id"`
		Type       string            `json:"type"`
		OccurredAt time.Time         `json:"occurred_at"`
		Data       map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sent.Body, &env))
	assert.Equal(t, sent.MessageId, env.ID)
	assert.Equal(t, "order.created", env.Type)
	assert.True(t, fixed.Equal(env.OccurredAt))
	assert.Equal(t, "o1", env.Data["order_id"])

	ch.AssertExpectations(t)
}

func TestPublishError(t *testing.T) {
	ch := &mockChannel{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	p, err := newPublisher(ch, "storefront")
	require.NoError(t, err)

	err = p.Publish(context.Background(), "order.status_changed", nil)
	assert.ErrorContains(t, err, "channel closed")
}

func TestDeclareFailureClosesChannel(t *testing.T) {
	ch := &mockChannel{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(errors.New("access refused"))
	ch.On("Close").Return(nil)

	_, err := newPublisher(ch, "storefront")
	assert.Error(t, err)
	ch.AssertCalled(t, "Close")
}

func TestConcurrentPublishes(t *testing.T) {
	ch := &mockChannel{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(nil)

	p, err := newPublisher(ch, "storefront")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Publish(context.Background(), "order.created", i))
		}()
	}
	wg.Wait()

	ch.AssertNumberOfCalls(t, "PublishWithContext", 20)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), "order.created", nil))
	assert.NoError(t, p.Close())
}
