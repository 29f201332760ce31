package gattpad

// DefaultEventQueueSize is the capacity of a stack's event channel.
const DefaultEventQueueSize = 256

// Event is emitted by a Stack and consumed by the Router.
// It is one of ReadRequestEvent, WriteRequestEvent, SubscriptionEvent
// or DisconnectEvent.
type Event interface {
	central() CentralID
}

// ReadRequestEvent asks for the value of a characteristic.
// Responder must receive exactly one response.
type ReadRequestEvent struct {
	Request
	Offset    int
	Responder *Responder[ReadResponse]
}

// WriteRequestEvent carries a value written by a central.
// Responder is nil when WithoutResponse is set.
type WriteRequestEvent struct {
	Request
	Offset          int
	Value           []byte
	WithoutResponse bool
	Responder       *Responder[WriteResponse]
}

// SubscriptionEvent reports a change of the central's CCC descriptor.
type SubscriptionEvent struct {
	Request
	Subscribed bool
	Indicate   bool
}

// DisconnectEvent reports that a central went away.
type DisconnectEvent struct {
	Central CentralID
}

func (e ReadRequestEvent) central() CentralID  { return e.Central }
func (e WriteRequestEvent) central() CentralID { return e.Central }
func (e SubscriptionEvent) central() CentralID { return e.Central }
func (e DisconnectEvent) central() CentralID   { return e.Central }
