package core

import (
	"time"

	"github.com/sorapara/relay/internal/domain"
)

// Outbound event names, one-to-one with the wire protocol.
const (
	EventWaiting           = "waiting"
	EventPartnerFound      = "partnerFound"
	EventPartnerLeft       = "partnerLeft"
	EventVideoWaiting      = "videoWaiting"
	EventVideoPartnerFound = "videoPartnerFound"
	EventVideoPartnerLeft  = "videoPartnerLeft"
	EventMessage           = "message"
	EventTyping            = "typing"
	EventStopTyping        = "stopTyping"
	EventVideoSignal       = "videoSignal"
)

// PartnerDTO is the payload of partnerFound/videoPartnerFound.
type PartnerDTO struct {
	ID   domain.ConnID `json:"id"`
	Name string        `json:"name"`
}

// MessageDTO is the payload of relayed chat messages.
type MessageDTO struct {
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// TypingDTO carries the display name of the participant typing.
type TypingDTO struct {
	UserName string `json:"userName"`
}
