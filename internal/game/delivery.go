package game

// DeliveryKind says how a player session should present a delivery.
type DeliveryKind int

const (
	// DeliveryMessage is printed to the player.
	DeliveryMessage DeliveryKind = iota
	// DeliveryTip replaces the transient status shown in the prompt.
	DeliveryTip
	// DeliveryBar replaces the progress bar shown in the prompt. Empty data clears it.
	DeliveryBar
)

// Delivery is a message routed to a player session.
type Delivery struct {
	Kind DeliveryKind
	Data []byte
}

// Subscriber provides the ability to subscribe to message subjects
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}
