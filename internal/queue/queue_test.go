package queue

import (
	"context"
	"testing"
	"time"
)

func TestInMemory_PublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	want := Message{Type: "reminder", Body: []byte(`{"email":"a@b.c"}`)}
	if err := q.Publish(ctx, want); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-msgs:
		if got.Type != want.Type || string(got.Body) != string(want.Body) {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemory_PublishHonoursCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	// Fill the buffer, then cancel: the second publish must not block forever.
	if err := q.Publish(ctx, Message{Type: "reminder"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	cancel()
	if err := q.Publish(ctx, Message{Type: "reminder"}); err == nil {
		t.Error("expected publish to fail after cancel")
	}
}
