package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sorapara/relay/internal/domain"
)

type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (ctl *Controller) dispatchChat(sid domain.ConnID, data []byte) {
	var env inbound
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "ws.chat").Msg("bad json")
		return
	}

	switch env.Type {
	case "setUsername":
		ctl.handleSetUsername(sid, env.Data, "")
	case "sendMessage":
		ctl.handleSendMessage(sid, env.Data)
	case "typing":
		ctl.ctrl.Typing(sid)
	case "stopTyping":
		ctl.ctrl.StopTyping(sid)
	case "findNewPartner":
		ctl.ctrl.FindNewPartner(sid)
	default:
		log.Warn().Str("module", "ws.chat").Str("type", env.Type).Msg("unknown event")
	}
}

// handleSetUsername parses the username payload. forceMode overrides the
// client-supplied mode on the video endpoint.
func (ctl *Controller) handleSetUsername(sid domain.ConnID, data json.RawMessage, forceMode string) {
	var p struct {
		UserName string `json:"userName"`
		Mode     string `json:"mode"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "ws.chat").Msg("bad setUsername payload")
		return
	}
	mode := p.Mode
	if forceMode != "" {
		mode = forceMode
	}
	ctl.ctrl.SetUsername(sid, p.UserName, mode)
}

func (ctl *Controller) handleSendMessage(sid domain.ConnID, data json.RawMessage) {
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "ws.chat").Str("sid", string(sid)).Msg("message rate limit exceeded")
		return
	}
	var p struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "ws.chat").Msg("bad sendMessage payload")
		return
	}
	if p.Content == "" {
		return
	}
	ctl.ctrl.SendMessage(sid, p.Content)
}
