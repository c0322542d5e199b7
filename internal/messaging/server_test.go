package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestNatsServer_NotStarted(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	testutil.AssertErrorContains(t, s.Publish("broadcast", nil), "not started")
	_, err = s.Subscribe("broadcast", func([]byte) {})
	testutil.AssertErrorContains(t, err, "not started")
}

func TestNatsServer_PublishSubscribe(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1), WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	select {
	case <-s.Ready():
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for server")
	}

	got := make(chan string, 1)
	unsub, err := s.Subscribe(PlayerSubject("alice"), func(data []byte) {
		got <- string(data)
	})
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}

	if err := NewNatsPublisher(s).SendMessage("Alice", "hello"); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	select {
	case msg := <-got:
		testutil.AssertEqual(t, "message", msg, "hello")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	unsub()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for shutdown")
	}
}
