package messaging

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

type published struct {
	Subject string
	Data    string
}

type mockPublisher struct {
	sent []published
	err  error
}

func (m *mockPublisher) Publish(subject string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, published{Subject: subject, Data: string(data)})
	return nil
}

func TestNatsPublisher(t *testing.T) {
	tests := map[string]struct {
		send func(p *NatsPublisher) error
		exp  published
	}{
		"broadcast": {
			send: func(p *NatsPublisher) error { return p.Broadcast("BlockShuffle has started!") },
			exp:  published{Subject: "broadcast", Data: "BlockShuffle has started!"},
		},
		"message": {
			send: func(p *NatsPublisher) error { return p.SendMessage("Alice", "hi") },
			exp:  published{Subject: "player-alice", Data: "hi"},
		},
		"tip": {
			send: func(p *NatsPublisher) error { return p.SendTip("Alice", "Time Left: 3s") },
			exp:  published{Subject: "tip-alice", Data: "Time Left: 3s"},
		},
		"bar": {
			send: func(p *NatsPublisher) error { return p.SendBar("Alice", []byte("[##--]")) },
			exp:  published{Subject: "bar-alice", Data: "[##--]"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := &mockPublisher{}
			if err := tt.send(NewNatsPublisher(m)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "sent", m.sent, []published{tt.exp})
		})
	}
}

func TestNatsPublisher_Error(t *testing.T) {
	m := &mockPublisher{err: errors.New("connection closed")}
	err := NewNatsPublisher(m).SendMessage("alice", "hi")
	testutil.AssertErrorContains(t, err, "connection closed")
}
