package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/domain"
)

var ErrAlreadyRegistered = errors.New("participant already registered")

// Registry owns participant lifetime. Queues, sessions and the group channel
// only hold references into it; callers must unwind those before Remove.
// Not safe for concurrent use on its own — the Controller serializes access.
type Registry struct {
	participants map[domain.ConnID]*domain.Participant
}

func NewRegistry() *Registry {
	return &Registry{participants: make(map[domain.ConnID]*domain.Participant)}
}

func (r *Registry) Create(p *domain.Participant) error {
	if _, ok := r.participants[p.ID]; ok {
		return ErrAlreadyRegistered
	}
	r.participants[p.ID] = p
	log.Info().Str("module", "app.registry").Str("id", string(p.ID)).Str("name", p.Name).Str("mode", string(p.Mode)).Msg("participant created")
	return nil
}

func (r *Registry) Get(id domain.ConnID) (*domain.Participant, bool) {
	p, ok := r.participants[id]
	return p, ok
}

// Remove deletes unconditionally; prior partner/queue/group membership must
// already be unwound by the caller.
func (r *Registry) Remove(id domain.ConnID) {
	delete(r.participants, id)
	log.Info().Str("module", "app.registry").Str("id", string(id)).Int("remaining", len(r.participants)).Msg("participant removed")
}

func (r *Registry) Len() int { return len(r.participants) }
