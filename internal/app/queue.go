package app

import "github.com/sorapara/relay/internal/domain"

// WaitQueue is the FIFO list of participants awaiting a partner. A participant
// appears at most once and never while holding a partner.
// Not safe for concurrent use on its own — the Controller serializes access.
type WaitQueue struct {
	entries []*domain.Participant
}

func NewWaitQueue() *WaitQueue { return &WaitQueue{} }

func (q *WaitQueue) Push(p *domain.Participant) {
	q.entries = append(q.entries, p)
}

// Pop returns the oldest waiting participant, or nil when empty.
func (q *WaitQueue) Pop() *domain.Participant {
	if len(q.entries) == 0 {
		return nil
	}
	p := q.entries[0]
	q.entries = q.entries[1:]
	return p
}

func (q *WaitQueue) Remove(id domain.ConnID) bool {
	for i, p := range q.entries {
		if p.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (q *WaitQueue) Contains(id domain.ConnID) bool {
	for _, p := range q.entries {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (q *WaitQueue) Len() int { return len(q.entries) }
