package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/streadway/amqp"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	closed   bool
	err      error
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestAMQP(ch *fakeChannel) *AMQPClient {
	return &AMQPClient{
		channel:    func() (amqpChannel, error) { return ch, nil },
		exchange:   DefaultExchange,
		routingKey: DefaultRoutingKey,
	}
}

func TestAMQPClientSend(t *testing.T) {
	ch := &fakeChannel{}
	client := newTestAMQP(ch)

	if err := client.Send(context.Background(), Message{ResumeID: 9, RequestID: "req-1", Version: 1}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ch.exchange != "resume_events" || ch.key != "resume.processed" {
		t.Fatalf("unexpected exchange/key %q %q", ch.exchange, ch.key)
	}
	if ch.msg.ContentType != "application/json" || ch.msg.DeliveryMode != amqp.Persistent || ch.msg.MessageId != "req-1" {
		t.Fatalf("unexpected publishing %+v", ch.msg)
	}
	if !ch.closed {
		t.Fatalf("expected channel to be closed after publish")
	}
	got, err := DecodeMessage(ch.msg.Body)
	if err != nil || got.ResumeID != 9 {
		t.Fatalf("unexpected body %s (%v)", ch.msg.Body, err)
	}
}

func TestAMQPClientSendErrors(t *testing.T) {
	if err := newTestAMQP(&fakeChannel{err: errors.New("blocked")}).Send(context.Background(), Message{}); err == nil {
		t.Fatalf("expected publish error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newTestAMQP(&fakeChannel{}).Send(ctx, Message{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}

	failing := &AMQPClient{channel: func() (amqpChannel, error) { return nil, errors.New("closed") }}
	if err := failing.Send(context.Background(), Message{}); err == nil {
		t.Fatalf("expected channel error")
	}
}

func TestNewAMQPClientRequiresURL(t *testing.T) {
	if _, err := NewAMQPClient("", "", ""); err == nil {
		t.Fatalf("expected error for missing url")
	}
}
