// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const MaxNameLen = 36

var (
	ErrNameTooLong = errors.New("name too long")
	ErrNameEmpty   = errors.New("name empty")
)

// ConnID is the transport-level connection identity a participant is keyed by.
type ConnID string

type Mode string

const (
	ModeOneToOne Mode = "one-to-one"
	ModeGroup    Mode = "group"
	ModeVideo    Mode = "video"
)

// ParseMode maps a client-supplied mode string; anything unknown falls back
// to one-to-one, the default of the wire protocol.
func ParseMode(raw string) Mode {
	switch Mode(raw) {
	case ModeGroup:
		return ModeGroup
	case ModeVideo:
		return ModeVideo
	default:
		return ModeOneToOne
	}
}

// Participant is a connected identity. Partner and Room are nil/empty unless
// matched; both are set and cleared together, always on both sides of a pair.
type Participant struct {
	ID      ConnID
	Name    string
	Mode    Mode
	Partner *Participant
	Room    RoomID
}

// NewParticipant trims and validates the display name. Construction never
// touches any shared structure.
func NewParticipant(id ConnID, name string, mode Mode) (*Participant, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return nil, ErrNameEmpty
	}
	if len(name) > MaxNameLen {
		return nil, ErrNameTooLong
	}
	return &Participant{ID: id, Name: name, Mode: mode}, nil
}

// GuestName generates a throwaway display name for clients that sent an
// unusable one.
func GuestName() string {
	return "guest-" + uuid.NewString()[:8]
}

func (p *Participant) Matched() bool { return p.Partner != nil }
