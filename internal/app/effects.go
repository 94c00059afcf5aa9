package app

import "github.com/sorapara/relay/internal/domain"

// Transitions return effects instead of calling the transport directly, so
// every mutation commits fully before a single byte leaves the process and a
// half-updated pairing is never observable through a notification.
type effectKind int

const (
	fxSend effectKind = iota
	fxBroadcast
	fxJoin
	fxLeave
)

type effect struct {
	kind    effectKind
	to      domain.ConnID
	room    domain.RoomID
	exclude domain.ConnID
	event   string
	payload any
}

func sendFx(to domain.ConnID, event string, payload any) effect {
	return effect{kind: fxSend, to: to, event: event, payload: payload}
}

func broadcastFx(room domain.RoomID, event string, payload any, exclude domain.ConnID) effect {
	return effect{kind: fxBroadcast, room: room, event: event, payload: payload, exclude: exclude}
}

func joinFx(id domain.ConnID, room domain.RoomID) effect {
	return effect{kind: fxJoin, to: id, room: room}
}

func leaveFx(id domain.ConnID, room domain.RoomID) effect {
	return effect{kind: fxLeave, to: id, room: room}
}
