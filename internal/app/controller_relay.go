package app

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/core"
	"github.com/sorapara/relay/internal/domain"
)

// Routing is evaluated against the participant's state at event arrival, not
// at connect time. Events for unknown connections or invalid states are
// dropped without acknowledgment.

// SendMessage delivers to the current partner, or broadcasts to the group
// channel excluding the sender.
func (c *Controller) SendMessage(id domain.ConnID, content string) {
	c.mu.Lock()
	var fx []effect
	if p, ok := c.registry.Get(id); ok {
		msg := core.MessageDTO{SenderName: p.Name, Content: content, Timestamp: time.Now()}
		switch {
		case p.Matched() && p.Room != "":
			fx = append(fx, sendFx(p.Partner.ID, core.EventMessage, msg))
			log.Debug().Str("module", "app.relay").Str("from", p.Name).Str("to", p.Partner.Name).Msg("message relayed")
		case p.Mode == domain.ModeGroup && p.Room == domain.GroupRoom:
			fx = append(fx, broadcastFx(domain.GroupRoom, core.EventMessage, msg, id))
			log.Debug().Str("module", "app.relay").Str("from", p.Name).Msg("group message relayed")
		}
	}
	c.mu.Unlock()

	c.flush(fx)
}

// Typing marks the sender as typing: group members update the shared typing
// set and broadcast, matched participants notify their partner only.
func (c *Controller) Typing(id domain.ConnID) {
	c.relayTyping(id, true)
}

// StopTyping clears the typing mark.
func (c *Controller) StopTyping(id domain.ConnID) {
	c.relayTyping(id, false)
}

func (c *Controller) relayTyping(id domain.ConnID, on bool) {
	c.mu.Lock()
	var fx []effect
	if p, ok := c.registry.Get(id); ok {
		switch {
		case p.Mode == domain.ModeGroup && p.Room == domain.GroupRoom:
			c.group.SetTyping(p.Name, on)
			if on {
				fx = append(fx, broadcastFx(domain.GroupRoom, core.EventTyping, core.TypingDTO{UserName: p.Name}, id))
			} else {
				fx = append(fx, broadcastFx(domain.GroupRoom, core.EventStopTyping, nil, id))
			}
		case p.Matched() && p.Room != "":
			if on {
				fx = append(fx, sendFx(p.Partner.ID, core.EventTyping, core.TypingDTO{UserName: p.Name}))
			} else {
				fx = append(fx, sendFx(p.Partner.ID, core.EventStopTyping, nil))
			}
		}
	}
	c.mu.Unlock()

	c.flush(fx)
}

// VideoSignal forwards the raw signaling payload to the partner verbatim.
// The payload is never interpreted here.
func (c *Controller) VideoSignal(id domain.ConnID, payload json.RawMessage) {
	c.mu.Lock()
	var fx []effect
	if p, ok := c.registry.Get(id); ok && p.Matched() && p.Room != "" {
		fx = append(fx, sendFx(p.Partner.ID, core.EventVideoSignal, payload))
	}
	c.mu.Unlock()

	c.flush(fx)
}
