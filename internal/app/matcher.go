package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/core"
	"github.com/sorapara/relay/internal/domain"
)

// EventSet names the per-mode variants of the pairing notifications.
type EventSet struct {
	Waiting      string
	PartnerFound string
	PartnerLeft  string
}

// Matcher is the pairwise matching engine for one interaction mode. It owns
// that mode's wait queue and session store; the text and video subsystems are
// two instances of it differing only in event names and room-id prefix.
// Not safe for concurrent use on its own — the Controller serializes access.
type Matcher struct {
	mode       domain.Mode
	roomPrefix string
	events     EventSet
	queue      *WaitQueue
	sessions   *SessionStore
}

func NewTextMatcher() *Matcher {
	return &Matcher{
		mode:       domain.ModeOneToOne,
		roomPrefix: "room",
		events: EventSet{
			Waiting:      core.EventWaiting,
			PartnerFound: core.EventPartnerFound,
			PartnerLeft:  core.EventPartnerLeft,
		},
		queue:    NewWaitQueue(),
		sessions: NewSessionStore(),
	}
}

func NewVideoMatcher() *Matcher {
	return &Matcher{
		mode:       domain.ModeVideo,
		roomPrefix: "video_room",
		events: EventSet{
			Waiting:      core.EventVideoWaiting,
			PartnerFound: core.EventVideoPartnerFound,
			PartnerLeft:  core.EventVideoPartnerLeft,
		},
		queue:    NewWaitQueue(),
		sessions: NewSessionStore(),
	}
}

// Match pairs p with the oldest waiting participant. A stale queue entry for
// p itself is removed first so a participant can never match with itself.
// Returns false when the queue was empty; enqueueing is the caller's call,
// because first-join and re-match differ only in the cleanup that ran before.
func (m *Matcher) Match(p *domain.Participant) (bool, []effect) {
	m.queue.Remove(p.ID)

	partner := m.queue.Pop()
	if partner == nil {
		return false, nil
	}

	room := domain.PairRoomID(m.roomPrefix, p.ID, partner.ID)
	p.Partner, p.Room = partner, room
	partner.Partner, partner.Room = p, room
	m.sessions.Put(Session{ID: room, A: p, B: partner})

	log.Info().Str("module", "app.matcher").Str("mode", string(m.mode)).
		Str("room", string(room)).Str("a", p.Name).Str("b", partner.Name).Msg("matched")

	return true, []effect{
		joinFx(p.ID, room),
		joinFx(partner.ID, room),
		sendFx(p.ID, m.events.PartnerFound, core.PartnerDTO{ID: partner.ID, Name: partner.Name}),
		sendFx(partner.ID, m.events.PartnerFound, core.PartnerDTO{ID: p.ID, Name: p.Name}),
	}
}

// Enqueue appends p to the wait queue unless already present and emits the
// waiting notification.
func (m *Matcher) Enqueue(p *domain.Participant) []effect {
	if !m.queue.Contains(p.ID) {
		m.queue.Push(p)
		log.Info().Str("module", "app.matcher").Str("mode", string(m.mode)).
			Str("name", p.Name).Int("queue", m.queue.Len()).Msg("enqueued")
	}
	return []effect{sendFx(p.ID, m.events.Waiting, nil)}
}

// Break tears down p's partnership symmetrically and drops the session.
// No-op when p is unmatched, so tearing down an already-vacated pairing is
// never an error.
func (m *Matcher) Break(p *domain.Participant) []effect {
	if p.Partner == nil {
		return nil
	}
	partner := p.Partner
	room := p.Room

	p.Partner, p.Room = nil, ""
	partner.Partner, partner.Room = nil, ""
	m.sessions.Delete(room)

	log.Info().Str("module", "app.matcher").Str("mode", string(m.mode)).
		Str("room", string(room)).Msg("partnership broken")

	return []effect{
		leaveFx(p.ID, room),
		leaveFx(partner.ID, room),
		sendFx(partner.ID, m.events.PartnerLeft, nil),
	}
}

func (m *Matcher) RemoveFromQueue(id domain.ConnID) bool { return m.queue.Remove(id) }

func (m *Matcher) QueueLen() int { return m.queue.Len() }

func (m *Matcher) SessionCount() int { return m.sessions.Len() }
