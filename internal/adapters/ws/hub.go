package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/core"
	"github.com/sorapara/relay/internal/domain"
)

// envelope is the wire frame: event name plus optional payload.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub implements core.Transport over live websocket connections. It tracks
// connections by id and named room membership for broadcasts. The engine
// relays through it; connection resources stay owned by the controllers.
type Hub struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]core.SignalConnection
	rooms map[domain.RoomID]map[domain.ConnID]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[domain.ConnID]core.SignalConnection),
		rooms: make(map[domain.RoomID]map[domain.ConnID]struct{}),
	}
}

func (h *Hub) Register(id domain.ConnID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = conn
	log.Info().Str("module", "ws.hub").Str("id", string(id)).Int("conns", len(h.conns)).Msg("connection registered")
}

// Unregister drops the connection and every room membership it still holds.
func (h *Hub) Unregister(id domain.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
	for room, members := range h.rooms {
		delete(members, id)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	log.Info().Str("module", "ws.hub").Str("id", string(id)).Int("conns", len(h.conns)).Msg("connection unregistered")
}

func (h *Hub) SendTo(id domain.ConnID, event string, payload any) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	conn, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		// Receiver already gone; its own disconnect handler cleans up.
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Str("module", "ws.hub").Str("id", string(id)).Str("event", event).Err(err).Msg("send dropped")
	}
}

func (h *Hub) Broadcast(room domain.RoomID, event string, payload any, exclude domain.ConnID) {
	frame, err := marshalEnvelope(event, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.rooms[room] {
		if id == exclude {
			continue
		}
		conn, ok := h.conns[id]
		if !ok {
			continue
		}
		if err := conn.TrySend(frame); err != nil {
			log.Warn().Str("module", "ws.hub").Str("id", string(id)).Str("event", event).Err(err).Msg("broadcast send dropped")
		}
	}
}

func (h *Hub) JoinGroup(id domain.ConnID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[domain.ConnID]struct{})
		h.rooms[room] = members
	}
	members[id] = struct{}{}
}

func (h *Hub) LeaveGroup(id domain.ConnID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func marshalEnvelope(event string, payload any) (core.Frame, error) {
	b, err := json.Marshal(envelope{Type: event, Data: payload})
	if err != nil {
		log.Error().Str("module", "ws.hub").Str("event", event).Err(err).Msg("envelope marshal")
		return nil, err
	}
	return b, nil
}
