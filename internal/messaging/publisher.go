package messaging

import "strings"

// BroadcastSubject reaches every connected player.
const BroadcastSubject = "broadcast"

// PlayerSubject carries chat-style messages for one player.
func PlayerSubject(name string) string {
	return "player-" + strings.ToLower(name)
}

// TipSubject carries the transient status line for one player.
func TipSubject(name string) string {
	return "tip-" + strings.ToLower(name)
}

// BarSubject carries the rendered progress bar for one player.
func BarSubject(name string) string {
	return "bar-" + strings.ToLower(name)
}

// Publisher sends raw data to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher routes game output to player NATS channels.
type NatsPublisher struct {
	pub Publisher
}

// NewNatsPublisher wraps a Publisher for per-player message delivery.
func NewNatsPublisher(pub Publisher) *NatsPublisher {
	return &NatsPublisher{pub: pub}
}

func (p *NatsPublisher) Broadcast(msg string) error {
	return p.pub.Publish(BroadcastSubject, []byte(msg))
}

func (p *NatsPublisher) SendMessage(name, msg string) error {
	return p.pub.Publish(PlayerSubject(name), []byte(msg))
}

func (p *NatsPublisher) SendTip(name, msg string) error {
	return p.pub.Publish(TipSubject(name), []byte(msg))
}

func (p *NatsPublisher) SendBar(name string, data []byte) error {
	return p.pub.Publish(BarSubject(name), data)
}
