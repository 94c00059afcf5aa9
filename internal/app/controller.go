package app

import (
	"sync"

	"github.com/sorapara/relay/internal/core"
	"github.com/sorapara/relay/internal/domain"
)

// Controller orchestrates connect, matching, relay and disconnect across the
// registry, the two matchers and the group channel. One mutex serializes
// every mutation: the symmetry invariant spans structures, so per-structure
// locking cannot make an A<->B pairing atomic. Transport calls are collected
// as effects under the lock and flushed after it is released.
type Controller struct {
	mu        sync.Mutex
	transport core.Transport

	registry *Registry
	group    *GroupChannel
	text     *Matcher
	video    *Matcher
}

func NewController(transport core.Transport) *Controller {
	return &Controller{
		transport: transport,
		registry:  NewRegistry(),
		group:     NewGroupChannel(),
		text:      NewTextMatcher(),
		video:     NewVideoMatcher(),
	}
}

func (c *Controller) matcherFor(mode domain.Mode) *Matcher {
	switch mode {
	case domain.ModeVideo:
		return c.video
	case domain.ModeOneToOne:
		return c.text
	default:
		return nil
	}
}

func (c *Controller) flush(fx []effect) {
	for _, f := range fx {
		switch f.kind {
		case fxSend:
			c.transport.SendTo(f.to, f.event, f.payload)
		case fxBroadcast:
			c.transport.Broadcast(f.room, f.event, f.payload, f.exclude)
		case fxJoin:
			c.transport.JoinGroup(f.to, f.room)
		case fxLeave:
			c.transport.LeaveGroup(f.to, f.room)
		}
	}
}
