package kafka

import (
	"context"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestPublishPrefixesTopic(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "staging.booking.created" {
			return fmt.Errorf("topic = %q, want staging.booking.created", msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "b1" {
			return fmt.Errorf("key = %q, want b1", key)
		}
		return nil
	})
	p := &Producer{sync: mock, prefix: "staging."}

	if err := p.Publish(context.Background(), "booking.created", "b1", []byte(`{}`), map[string]string{"source": "test"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPublishWithoutPrefix(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "review.submitted" {
			return fmt.Errorf("topic = %q, want review.submitted", msg.Topic)
		}
		return nil
	})
	p := &Producer{sync: mock}

	if err := p.Publish(context.Background(), "review.submitted", "r1", []byte(`{}`), nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
