package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/domain"
)

// Disconnect is terminal for the connection: unwind partnership, queue and
// group membership, then drop the registry entry. Idempotent — a second
// disconnect for the same id finds nothing and does nothing.
func (c *Controller) Disconnect(id domain.ConnID) {
	c.mu.Lock()
	var fx []effect
	if p, ok := c.registry.Get(id); ok {
		fx = c.teardownLocked(p)
		c.registry.Remove(id)
		log.Info().Str("module", "app.controller").Str("name", p.Name).
			Int("participants", c.registry.Len()).
			Int("text_queue", c.text.QueueLen()).
			Int("video_queue", c.video.QueueLen()).
			Msg("participant disconnected")
	}
	c.mu.Unlock()

	c.flush(fx)
}

// Stats is a read-only snapshot for the REST surface.
type Stats struct {
	Participants int `json:"participants"`
	TextQueue    int `json:"textQueue"`
	VideoQueue   int `json:"videoQueue"`
	Sessions     int `json:"sessions"`
	GroupMembers int `json:"groupMembers"`
	Typing       int `json:"typing"`
}

func (c *Controller) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Participants: c.registry.Len(),
		TextQueue:    c.text.QueueLen(),
		VideoQueue:   c.video.QueueLen(),
		Sessions:     c.text.SessionCount() + c.video.SessionCount(),
		GroupMembers: c.group.Size(),
		Typing:       len(c.group.TypingNames()),
	}
}
