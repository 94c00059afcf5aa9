package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/domain"
)

// SetUsername registers the participant and routes it into its mode. A second
// setUsername on a live connection runs full teardown of the previous record
// first; re-creating over live partner or queue state would leave the old
// partner pointing at a ghost.
func (c *Controller) SetUsername(id domain.ConnID, name, rawMode string) {
	mode := domain.ParseMode(rawMode)
	p, err := domain.NewParticipant(id, name, mode)
	if err != nil {
		log.Warn().Str("module", "app.controller").Str("id", string(id)).Err(err).Msg("invalid name, using guest name")
		p, _ = domain.NewParticipant(id, domain.GuestName(), mode)
	}

	c.mu.Lock()
	var fx []effect
	if prev, ok := c.registry.Get(id); ok {
		fx = append(fx, c.teardownLocked(prev)...)
		c.registry.Remove(id)
	}
	_ = c.registry.Create(p)

	switch mode {
	case domain.ModeGroup:
		p.Room = domain.GroupRoom
		c.group.Join(p)
		fx = append(fx, joinFx(id, domain.GroupRoom))
		log.Info().Str("module", "app.controller").Str("name", p.Name).
			Int("group_size", c.group.Size()).Msg("joined group chat")
	case domain.ModeOneToOne:
		fx = append(fx, c.matchOrEnqueueLocked(c.text, p)...)
	case domain.ModeVideo:
		// Video participants are only registered here; matching starts on
		// the explicit findVideoPartner request.
	}
	c.mu.Unlock()

	c.flush(fx)
}

// FindNewPartner tears down the current partnership, if any, and re-runs
// matching. Disallowed in group mode. Idempotent for an already-queued
// participant: teardown is a no-op and Enqueue never duplicates an entry.
func (c *Controller) FindNewPartner(id domain.ConnID) {
	c.mu.Lock()
	p, ok := c.registry.Get(id)
	if !ok || p.Mode == domain.ModeGroup {
		c.mu.Unlock()
		return
	}
	m := c.matcherFor(p.Mode)
	fx := m.Break(p)
	fx = append(fx, c.matchOrEnqueueLocked(m, p)...)
	c.mu.Unlock()

	c.flush(fx)
}

func (c *Controller) matchOrEnqueueLocked(m *Matcher, p *domain.Participant) []effect {
	if ok, fx := m.Match(p); ok {
		return fx
	}
	return m.Enqueue(p)
}

// teardownLocked unwinds every structure p may appear in: partnership,
// wait queue, group channel. Safe to call regardless of current state.
func (c *Controller) teardownLocked(p *domain.Participant) []effect {
	if p.Mode == domain.ModeGroup {
		c.group.Leave(p)
		return []effect{leaveFx(p.ID, domain.GroupRoom)}
	}
	m := c.matcherFor(p.Mode)
	fx := m.Break(p)
	m.RemoveFromQueue(p.ID)
	return fx
}
