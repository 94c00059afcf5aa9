package core

import "github.com/sorapara/relay/internal/domain"

// Frame is a marshaled outbound envelope.
type Frame []byte

// SignalConnection abstracts a single client's messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Transport is the outbound half of the connection layer the engine relays
// through. Delivery is fire-and-forget: a send to a vanished connection is
// silently dropped and never retried.
type Transport interface {
	SendTo(id domain.ConnID, event string, payload any)
	Broadcast(room domain.RoomID, event string, payload any, exclude domain.ConnID)
	JoinGroup(id domain.ConnID, room domain.RoomID)
	LeaveGroup(id domain.ConnID, room domain.RoomID)
}
