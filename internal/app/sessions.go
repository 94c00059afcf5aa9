package app

import "github.com/sorapara/relay/internal/domain"

// Session binds exactly two distinct participants for the lifetime of their
// match. It is stored under its room id, in 1:1 correspondence with the
// Partner/Room fields of both members.
type Session struct {
	ID domain.RoomID
	A  *domain.Participant
	B  *domain.Participant
}

// SessionStore maps room id to the active pairing.
// Not safe for concurrent use on its own — the Controller serializes access.
type SessionStore struct {
	rooms map[domain.RoomID]Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{rooms: make(map[domain.RoomID]Session)}
}

func (s *SessionStore) Put(sess Session) { s.rooms[sess.ID] = sess }

func (s *SessionStore) Get(id domain.RoomID) (Session, bool) {
	sess, ok := s.rooms[id]
	return sess, ok
}

func (s *SessionStore) Delete(id domain.RoomID) { delete(s.rooms, id) }

func (s *SessionStore) Len() int { return len(s.rooms) }
