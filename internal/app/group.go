package app

import (
	"github.com/samber/lo"

	"github.com/sorapara/relay/internal/domain"
)

// GroupChannel is the standing public broadcast channel. Members are never
// paired and never queued. Alongside membership it tracks which display names
// are currently marked typing.
// Not safe for concurrent use on its own — the Controller serializes access.
type GroupChannel struct {
	members map[domain.ConnID]*domain.Participant
	typing  map[string]struct{}
}

func NewGroupChannel() *GroupChannel {
	return &GroupChannel{
		members: make(map[domain.ConnID]*domain.Participant),
		typing:  make(map[string]struct{}),
	}
}

func (g *GroupChannel) Join(p *domain.Participant) {
	g.members[p.ID] = p
}

func (g *GroupChannel) Leave(p *domain.Participant) {
	delete(g.members, p.ID)
	delete(g.typing, p.Name)
}

func (g *GroupChannel) Contains(id domain.ConnID) bool {
	_, ok := g.members[id]
	return ok
}

func (g *GroupChannel) SetTyping(name string, on bool) {
	if on {
		g.typing[name] = struct{}{}
	} else {
		delete(g.typing, name)
	}
}

func (g *GroupChannel) TypingNames() []string { return lo.Keys(g.typing) }

func (g *GroupChannel) Size() int { return len(g.members) }
